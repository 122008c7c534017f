package ownmapdal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jamesrr39/goutil/dirtraversal"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/httpextra"
	"github.com/jamesrr39/goutil/humanise"
	"github.com/jamesrr39/goutil/logpkg"
)

// ResolutionError is returned when a file reference could neither be found under the local prefix nor downloaded
type ResolutionError struct {
	Ref string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("The file `%s` could not be found locally and not be retrieved as download.", e.Ref)
}

func newResolutionError(ref string, cause error) errorsx.Error {
	if cause == nil {
		return errorsx.Wrap(&ResolutionError{ref})
	}
	return errorsx.Wrap(&ResolutionError{ref}, "cause", cause.Error())
}

type ResolvedResource struct {
	Ref       string
	LocalPath string
	// Temporary is true for downloaded files, which are removed on Release
	Temporary bool
	fs        gofs.Fs
}

// Release removes the local file if it was downloaded for this resolution. Files under the local prefix are left alone.
func (rr *ResolvedResource) Release() errorsx.Error {
	if !rr.Temporary {
		return nil
	}

	err := rr.fs.Remove(rr.LocalPath)
	if err != nil && !os.IsNotExist(err) {
		return errorsx.Wrap(err, "path", rr.LocalPath)
	}

	return nil
}

type Resolver struct {
	logger      *logpkg.Logger
	fs          gofs.Fs
	doer        httpextra.Doer
	pathsConfig *PathsConfig
}

func NewResolver(logger *logpkg.Logger, fs gofs.Fs, doer httpextra.Doer, pathsConfig *PathsConfig) *Resolver {
	return &Resolver{logger, fs, doer, pathsConfig}
}

// Resolve turns a file reference into a local file path.
// The reference is first looked for under the local prefix dir. If it isn't there it is treated as a URL: file:// URLs
// are used in place, and http(s) URLs are downloaded.
// There is one attempt per call, and nothing is cached between calls.
func (r *Resolver) Resolve(ctx context.Context, ref string) (*ResolvedResource, errorsx.Error) {
	localPath, ok := r.findUnderPrefix(ref)
	if ok {
		r.logger.Debug("resolved %q under the local prefix to %q", ref, localPath)
		return &ResolvedResource{Ref: ref, LocalPath: localPath, fs: r.fs}, nil
	}

	u, parseErr := url.Parse(ref)
	if parseErr != nil {
		return nil, newResolutionError(ref, parseErr)
	}

	if u.Scheme == "file" {
		filePath, err := r.findFileURL(ref, u)
		if err != nil {
			return nil, err
		}
		return &ResolvedResource{Ref: ref, LocalPath: filePath, fs: r.fs}, nil
	}

	downloadedPath, err := r.download(ctx, ref, u)
	if err != nil {
		return nil, err
	}

	return &ResolvedResource{Ref: ref, LocalPath: downloadedPath, Temporary: true, fs: r.fs}, nil
}

func (r *Resolver) findUnderPrefix(ref string) (string, bool) {
	if r.pathsConfig.LocalPrefixDir == "" {
		return "", false
	}

	if dirtraversal.IsTryingToTraverseUp(ref) {
		r.logger.Warn("not looking for %q under the local prefix, as it tries to traverse up", ref)
		return "", false
	}

	localPath := filepath.Join(r.pathsConfig.LocalPrefixDir, ref)
	_, err := r.fs.Stat(localPath)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("couldn't stat %q: %q", localPath, err)
		}
		return "", false
	}

	return localPath, true
}

// findFileURL returns the path of a file:// URL. The file is used where it is, and is not removed on release.
func (r *Resolver) findFileURL(ref string, u *url.URL) (string, errorsx.Error) {
	if u.Host != "" && u.Host != "localhost" {
		return "", newResolutionError(ref, fmt.Errorf("file URL on another host: %q", u.Host))
	}

	if u.Path == "" {
		return "", newResolutionError(ref, fmt.Errorf("no path in file URL"))
	}

	_, err := r.fs.Stat(u.Path)
	if err != nil {
		return "", newResolutionError(ref, err)
	}

	r.logger.Debug("resolved file URL %q to %q", ref, u.Path)
	return u.Path, nil
}

func (r *Resolver) download(ctx context.Context, ref string, u *url.URL) (string, errorsx.Error) {
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return "", newResolutionError(ref, fmt.Errorf("no host in URL"))
		}
	default:
		return "", newResolutionError(ref, fmt.Errorf("unsupported URL scheme: %q", u.Scheme))
	}

	// the download carries on if the client goes away; a started request always runs to completion
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodGet, u.String(), nil)
	if err != nil {
		return "", newResolutionError(ref, err)
	}

	resp, err := r.doer.Do(req)
	if err != nil {
		return "", newResolutionError(ref, err)
	}
	defer resp.Body.Close()

	err = httpextra.CheckResponseCode(http.StatusOK, resp.StatusCode)
	if err != nil {
		return "", newResolutionError(ref, err)
	}

	body, err := httpextra.RemoveGzip(resp)
	if err != nil {
		return "", newResolutionError(ref, err)
	}
	defer body.Close()

	localPath := filepath.Join(r.tempDir(), fmt.Sprintf("rendergeojson_%s%s", uuid.New().String(), path.Ext(u.Path)))

	size, err := r.writeFile(localPath, body)
	if err != nil {
		return "", newResolutionError(ref, err)
	}

	r.logger.Info("downloaded %q to %q (%s)", ref, localPath, humanise.HumaniseBytes(size))

	return localPath, nil
}

func (r *Resolver) writeFile(localPath string, body io.Reader) (int64, error) {
	file, err := r.fs.Create(localPath)
	if err != nil {
		return 0, err
	}

	size, err := io.Copy(file, body)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		removeErr := r.fs.Remove(localPath)
		if removeErr != nil {
			r.logger.Warn("couldn't remove partially downloaded file %q: %q", localPath, removeErr)
		}
		return 0, err
	}

	return size, nil
}

func (r *Resolver) tempDir() string {
	if r.pathsConfig.TempDir != "" {
		return r.pathsConfig.TempDir
	}
	return os.TempDir()
}
