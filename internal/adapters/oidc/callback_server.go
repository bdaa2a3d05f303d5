package oidc

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"
)

var ErrCallbackTimeout = errors.New("timed out waiting for oidc callback")

// CallbackServer receives the provider's redirect on the registered inbound
// redirect URI and hands the full redirected URL back to the login flow.
// The provider contract carries no state parameter; the one-time code is
// consumed exactly once and replay fails at the token endpoint.
type CallbackServer struct {
	listener   net.Listener
	server     *http.Server
	resultCh   chan callbackResult
	resultOnce sync.Once
	closeOnce  sync.Once
}

type callbackResult struct {
	redirectURL string
	err         error
}

// StartCallbackServer listens on the host and serves the path of
// redirectURI, so the URL registered with the provider matches exactly.
func StartCallbackServer(redirectURI string) (*CallbackServer, error) {
	parsed, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("parse redirect uri: %w", err)
	}
	if parsed.Host == "" {
		return nil, errors.New("redirect uri host is required")
	}

	path := parsed.Path
	if path == "" {
		path = "/"
	}

	listener, err := net.Listen("tcp", listenAddr(parsed))
	if err != nil {
		return nil, fmt.Errorf("listen callback server: %w", err)
	}

	cb := &CallbackServer{
		listener: listener,
		resultCh: make(chan callbackResult, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(path, cb.handleCallback)

	cb.server = &http.Server{Handler: mux}

	go func() {
		if serveErr := cb.server.Serve(cb.listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			cb.trySendResult(callbackResult{err: serveErr})
		}
	}()

	return cb, nil
}

// WaitForRedirect blocks until the provider redirects back, then returns
// the full redirected URL including the code query parameter.
func (c *CallbackServer) WaitForRedirect(timeout time.Duration) (string, error) {
	defer func() { _ = c.Close() }()

	select {
	case result := <-c.resultCh:
		return result.redirectURL, result.err
	case <-time.After(timeout):
		return "", ErrCallbackTimeout
	}
}

func (c *CallbackServer) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		closeErr = c.server.Close()
	})
	return closeErr
}

func (c *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if oauthError := query.Get("error"); oauthError != "" {
		if description := query.Get("error_description"); description != "" {
			oauthError = oauthError + ": " + description
		}
		c.trySendResult(callbackResult{err: errors.New(oauthError)})
		http.Error(w, "authorization error", http.StatusBadRequest)
		return
	}
	if query.Get("code") == "" {
		c.trySendResult(callbackResult{err: errors.New("missing authorization code")})
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	c.trySendResult(callbackResult{redirectURL: requestURL(r)})
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Login complete. You can close this window and return to the terminal."))
}

func (c *CallbackServer) trySendResult(result callbackResult) {
	c.resultOnce.Do(func() {
		c.resultCh <- result
	})
}

func listenAddr(parsed *url.URL) string {
	host := parsed.Hostname()
	port := parsed.Port()
	if port == "" {
		port = "0"
	}
	return net.JoinHostPort(host, port)
}

func requestURL(r *http.Request) string {
	rebuilt := *r.URL
	rebuilt.Scheme = "http"
	rebuilt.Host = r.Host
	return rebuilt.String()
}
