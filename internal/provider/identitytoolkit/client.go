// Package identitytoolkit implements provider.IdentityProvider over the
// Identity Toolkit REST surface (the protocol spoken by Firebase
// Authentication and compatible emulators). Provider error codes are
// translated into the provider package's sentinel taxonomy at this
// boundary.
package identitytoolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aihealth/authcore/internal/provider"
)

const defaultTimeout = 10 * time.Second

// Client talks to an Identity Toolkit endpoint, e.g.
// https://identitytoolkit.googleapis.com or a local emulator.
type Client struct {
	endpoint string
	apiKey   string
	httpc    *http.Client
}

// NewClient constructs a Client for the given endpoint and API key.
// httpc may be nil, in which case a client with a default timeout is used.
func NewClient(endpoint, apiKey string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		httpc:    httpc,
	}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

type createAuthURIRequest struct {
	Identifier  string `json:"identifier"`
	ContinueURI string `json:"continueUri"`
}

type createAuthURIResponse struct {
	Registered    bool     `json:"registered"`
	SigninMethods []string `json:"signinMethods"`
	AllProviders  []string `json:"allProviders"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Authenticate implements provider.IdentityProvider.
func (c *Client) Authenticate(ctx context.Context, email, password string) (*provider.Subject, error) {
	var resp signInResponse
	err := c.post(ctx, "accounts:signInWithPassword",
		signInRequest{Email: email, Password: password, ReturnSecureToken: true}, &resp)
	if err != nil {
		return nil, err
	}
	return c.subjectFrom(resp, email), nil
}

// CreateAccount implements provider.IdentityProvider.
func (c *Client) CreateAccount(ctx context.Context, email, password string) (*provider.Subject, error) {
	var resp signInResponse
	err := c.post(ctx, "accounts:signUp",
		signInRequest{Email: email, Password: password, ReturnSecureToken: true}, &resp)
	if err != nil {
		return nil, err
	}
	return c.subjectFrom(resp, email), nil
}

// ListExistingMethods implements provider.IdentityProvider.
func (c *Client) ListExistingMethods(ctx context.Context, email string) ([]provider.Tag, error) {
	var resp createAuthURIResponse
	err := c.post(ctx, "accounts:createAuthUri",
		createAuthURIRequest{Identifier: email, ContinueURI: "http://localhost"}, &resp)
	if err != nil {
		return nil, err
	}

	methods := resp.SigninMethods
	if len(methods) == 0 {
		methods = resp.AllProviders
	}
	tags := make([]provider.Tag, 0, len(methods))
	for _, m := range methods {
		tags = append(tags, provider.Tag(m))
	}
	return tags, nil
}

// subjectFrom builds a Subject from a sign-in/sign-up response. When the
// response omits the email it is recovered from the idToken claims, and
// failing that the caller-provided email is used.
func (c *Client) subjectFrom(resp signInResponse, fallbackEmail string) *provider.Subject {
	email := resp.Email
	if email == "" {
		email = emailFromIDToken(resp.IDToken)
	}
	if email == "" {
		email = fallbackEmail
	}
	return &provider.Subject{ID: resp.LocalID, Email: email}
}

// emailFromIDToken extracts the email claim from an ID token without
// verifying the signature. The token was just issued to us over the same
// connection; only the claim payload is of interest here.
func emailFromIDToken(token string) string {
	if token == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	if email, ok := claims["email"].(string); ok {
		return email
	}
	return ""
}

func (c *Client) post(ctx context.Context, action string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", provider.ErrUnknown, err)
	}

	url := fmt.Sprintf("%s/v1/%s?key=%s", c.endpoint, action, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", provider.ErrUnknown, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", provider.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", provider.ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		return c.mapError(resp.StatusCode, data)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", provider.ErrUnknown, err)
	}
	return nil
}

// mapError translates an Identity Toolkit error payload into the closed
// provider taxonomy. Codes may carry a suffix after a colon, e.g.
// "WEAK_PASSWORD : Password should be at least 6 characters".
func (c *Client) mapError(status int, data []byte) error {
	var ae apiError
	_ = json.Unmarshal(data, &ae)

	code := ae.Error.Message
	if i := strings.IndexByte(code, ':'); i >= 0 {
		code = code[:i]
	}
	code = strings.TrimSpace(code)

	switch code {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED":
		return fmt.Errorf("%w: %s", provider.ErrInvalidCredential, code)
	case "EMAIL_EXISTS":
		return fmt.Errorf("%w: %s", provider.ErrEmailInUse, code)
	case "WEAK_PASSWORD":
		return fmt.Errorf("%w: %s", provider.ErrWeakPassword, code)
	}
	if status >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", provider.ErrNetwork, status)
	}
	if code == "" {
		return fmt.Errorf("%w: status %d", provider.ErrUnknown, status)
	}
	return fmt.Errorf("%w: %s", provider.ErrUnknown, code)
}
