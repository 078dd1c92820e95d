package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestServer wraps an httptest server with a cookie-keeping client that
// does not follow redirects, so tests can assert on them.
type TestServer struct {
	*httptest.Server
	t         *testing.T
	client    *http.Client
	UserAgent string
}

func NewTestServer(t *testing.T, handler http.Handler) *TestServer {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &TestServer{
		Server: server,
		t:      t,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		UserAgent: DesktopUserAgent,
	}
}

func (ts *TestServer) Do(method, path string, body io.Reader, header http.Header) *http.Response {
	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(ts.t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", ts.UserAgent)
	}

	resp, err := ts.client.Do(req)
	require.NoError(ts.t, err)
	ts.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (ts *TestServer) GET(path string) *http.Response {
	return ts.Do(http.MethodGet, path, nil, nil)
}

// Navigate issues a GET as if the browser came from the page at from.
func (ts *TestServer) Navigate(from, to string) *http.Response {
	header := http.Header{}
	if from != "" {
		header.Set("Referer", ts.URL+from)
	}
	return ts.Do(http.MethodGet, to, nil, header)
}

func (ts *TestServer) PostForm(path string, form url.Values) *http.Response {
	header := http.Header{"Content-Type": []string{"application/x-www-form-urlencoded"}}
	return ts.Do(http.MethodPost, path, strings.NewReader(form.Encode()), header)
}

func (ts *TestServer) PATCH(path string, body interface{}) *http.Response {
	jsonBody, err := json.Marshal(body)
	require.NoError(ts.t, err)
	header := http.Header{"Content-Type": []string{"application/json"}}
	return ts.Do(http.MethodPatch, path, bytes.NewReader(jsonBody), header)
}

func ReadBody(t *testing.T, resp *http.Response) string {
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func AssertJSONResponse(t *testing.T, resp *http.Response, expectedStatus int, target interface{}) {
	require.Equal(t, expectedStatus, resp.StatusCode)

	if target != nil {
		err := json.NewDecoder(resp.Body).Decode(target)
		require.NoError(t, err)
	}
}

func AssertRedirect(t *testing.T, resp *http.Response, location string) {
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, location, resp.Header.Get("Location"))
}
