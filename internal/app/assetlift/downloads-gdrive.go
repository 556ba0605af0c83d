package assetlift

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nguyenpanda/assetlift/internal/clients/cli"
	ffs "github.com/nguyenpanda/assetlift/pkg/fs"
)

const downloadSuffix = ".download"

// GDriveDownloader downloads publicly shared files from Google Drive.
type GDriveDownloader struct {
	// BaseURL is the download endpoint, e.g. https://drive.google.com/uc.
	BaseURL string
	// Client is the HTTP client used for requests.
	Client *http.Client
	// Output receives progress reports. If nil, no progress is reported.
	Output io.Writer
}

// Download downloads the file with the specified ID to outputPath. Files too large for Google Drive
// to scan for viruses are served behind a confirmation page, which is followed automatically. The
// file is written to a temporary path first and only renamed to outputPath once it's complete.
func (d GDriveDownloader) Download(ctx context.Context, id, outputPath string) (int64, error) {
	fileURL, err := d.fileURL(id)
	if err != nil {
		return 0, err
	}
	res, err := d.get(ctx, fileURL)
	if err != nil {
		return 0, err
	}
	if isHTML(res) {
		// Google Drive asks for confirmation before serving files it can't scan
		confirmURL, err := findConfirmationURL(res.Body, res.Request.URL)
		_ = res.Body.Close()
		if err != nil {
			return 0, err
		}
		if res, err = d.get(ctx, confirmURL); err != nil {
			return 0, err
		}
		if isHTML(res) {
			_ = res.Body.Close()
			return 0, errors.Errorf(
				"google drive returned a web page instead of file %s; is the file shared publicly?", id,
			)
		}
	}
	defer func(body io.Closer) {
		_ = body.Close()
	}(res.Body)

	return d.save(res.Body, res.ContentLength, outputPath)
}

func (d GDriveDownloader) fileURL(id string) (*url.URL, error) {
	u, err := url.Parse(d.BaseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't parse download url %s", d.BaseURL)
	}
	query := u.Query()
	query.Set("export", "download")
	query.Set("id", id)
	u.RawQuery = query.Encode()
	return u, nil
}

func (d GDriveDownloader) get(ctx context.Context, u *url.URL) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't make http get request for %s", u)
	}
	hc := d.Client
	if hc == nil {
		hc = http.DefaultClient
	}
	res, err := hc.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't request %s", u)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		_ = res.Body.Close()
		return nil, errors.Errorf("request for %s failed with status %s", u, res.Status)
	}
	return res, nil
}

func (d GDriveDownloader) save(body io.Reader, size int64, outputPath string) (int64, error) {
	if err := ffs.EnsureExists(filepath.Dir(outputPath)); err != nil {
		return 0, err
	}
	tmpPath := outputPath + downloadSuffix
	file, err := os.Create(tmpPath)
	if err != nil {
		return 0, errors.Wrapf(err, "couldn't create temporary download file at %s", tmpPath)
	}
	committed := false
	defer func() {
		if !committed {
			_ = file.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	var w io.Writer = file
	var progress *cli.ProgressWriter
	if d.Output != nil {
		progress = cli.NewProgressWriter(d.Output, size)
		w = io.MultiWriter(file, progress)
	}
	written, err := io.Copy(w, body)
	if err != nil {
		return written, errors.Wrapf(err, "couldn't download to %s", tmpPath)
	}
	if progress != nil {
		progress.Finish()
	}
	if err = file.Close(); err != nil {
		return written, errors.Wrapf(err, "couldn't close temporary download file %s", tmpPath)
	}
	if err = os.Rename(tmpPath, outputPath); err != nil {
		return written, errors.Wrapf(
			err, "couldn't commit completed download from %s to %s", tmpPath, outputPath,
		)
	}
	committed = true
	return written, nil
}

func isHTML(res *http.Response) bool {
	mediaType, _, err := mime.ParseMediaType(res.Header.Get("Content-Type"))
	return err == nil && mediaType == "text/html"
}

// findConfirmationURL looks for the download link in Google Drive's virus scan warning page. Newer
// pages submit a form with hidden inputs, while older ones have a plain link.
func findConfirmationURL(page io.Reader, base *url.URL) (*url.URL, error) {
	doc, err := html.Parse(page)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't parse google drive confirmation page")
	}
	if form := findElement(doc, atom.Form, "download-form"); form != nil {
		action, err := base.Parse(attr(form, "action"))
		if err != nil {
			return nil, errors.Wrap(err, "couldn't parse download form action")
		}
		query := action.Query()
		for _, input := range findAll(form, atom.Input) {
			if attr(input, "type") != "hidden" || attr(input, "name") == "" {
				continue
			}
			query.Set(attr(input, "name"), attr(input, "value"))
		}
		action.RawQuery = query.Encode()
		return action, nil
	}
	if link := findElement(doc, atom.A, "uc-download-link"); link != nil {
		href, err := base.Parse(attr(link, "href"))
		if err != nil {
			return nil, errors.Wrap(err, "couldn't parse download link")
		}
		return href, nil
	}
	return nil, errors.New(
		"google drive returned a web page without a download link; is the file shared publicly?",
	)
}

func findElement(n *html.Node, a atom.Atom, id string) *html.Node {
	for _, el := range findAll(n, a) {
		if attr(el, "id") == id {
			return el
		}
	}
	return nil
}

func findAll(n *html.Node, a atom.Atom) (found []*html.Node) {
	if n.Type == html.ElementNode && n.DataAtom == a {
		found = append(found, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		found = append(found, findAll(c, a)...)
	}
	return found
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
