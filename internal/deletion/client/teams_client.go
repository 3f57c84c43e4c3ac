package client

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"so4tdelete/internal/deletion/model"
)

// TeamsClient is the HTTP client for the web endpoints of a Stack Overflow for Teams site
type TeamsClient struct {
	baseURL    string
	variant    string
	httpClient *http.Client
	direct     *http.Client
}

// BulkDeleteResponse carries the raw outcome of one bulk delete call
type BulkDeleteResponse struct {
	StatusCode int
	Body       []byte
}

// NewTeamsClient creates a client for baseURL. httpClient should carry the
// authenticated cookie jar; nil gives an anonymous client.
func NewTeamsClient(baseURL string, httpClient *http.Client) *TeamsClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	return &TeamsClient{
		baseURL:    baseURL,
		variant:    VariantFor(baseURL),
		httpClient: httpClient,
		direct:     withoutRedirects(httpClient),
	}
}

// withoutRedirects shares c's transport and jar but never follows redirects.
// The admin probe and bulk delete must see the first status the site sends.
func withoutRedirects(c *http.Client) *http.Client {
	direct := *c
	direct.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &direct
}

// VariantFor tells Business/Basic sites (hosted on stackoverflowteams.com) from Enterprise ones.
func VariantFor(baseURL string) string {
	host := baseURL
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		host = u.Hostname()
	}
	if strings.Contains(strings.ToLower(host), model.BusinessHostSuffix) {
		return model.VariantBusiness
	}
	return model.VariantEnterprise
}

func (c *TeamsClient) BaseURL() string {
	return c.baseURL
}

func (c *TeamsClient) Variant() string {
	return c.variant
}

// AdminSettingsPath is only reachable by administrators; others get a 404.
func (c *TeamsClient) AdminSettingsPath() string {
	if c.variant == model.VariantBusiness {
		return model.PathBusinessAdminSettings
	}
	return model.PathEnterpriseAdminSettings
}

// CheckReachable verifies the site answers 200 before a login is attempted.
func (c *TeamsClient) CheckReachable(ctx context.Context) error {
	status, _, err := c.get(ctx, "")
	if err != nil {
		var certErr *tls.CertificateVerificationError
		if errors.As(err, &certErr) {
			return fmt.Errorf("SSL certificate error when trying to access %s: %w", c.baseURL, err)
		}
		return fmt.Errorf("connection error when trying to access %s: %w", c.baseURL, err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("error when trying to access %s: status code %d", c.baseURL, status)
	}
	return nil
}

// HasAdminPermission fetches the admin settings page; only 200 counts as
// admin. A redirect (to the login page, say) is not followed and counts as no.
func (c *TeamsClient) HasAdminPermission(ctx context.Context) (bool, error) {
	status, _, err := c.do(ctx, c.direct, c.AdminSettingsPath())
	if err != nil {
		return false, err
	}
	return status == http.StatusOK, nil
}

// FetchDeletionToken scrapes the fkey from the landing page.
func (c *TeamsClient) FetchDeletionToken(ctx context.Context) (string, error) {
	status, body, err := c.get(ctx, "")
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("fetch landing page failed with status: %d", status)
	}
	return ExtractDeletionToken(string(body))
}

// TestSession reports whether the cookies still belong to a logged-in user.
func (c *TeamsClient) TestSession(ctx context.Context) (bool, error) {
	status, body, err := c.get(ctx, model.PathUsers)
	if err != nil {
		return false, err
	}
	if status != http.StatusOK {
		return false, nil
	}
	return IsLoggedInPage(string(body))
}

// BulkDeleteUsers submits one batch. Any status, redirects included, is
// returned to the caller for classification; only transport failures are errors.
func (c *TeamsClient) BulkDeleteUsers(ctx context.Context, token string, ids []model.AccountID) (*BulkDeleteResponse, error) {
	form := url.Values{}
	form.Set(model.FieldFkey, token)
	for _, id := range ids {
		form.Add(model.FieldAccountIDs, id.String())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+model.PathBulkDeleteUsers, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.direct.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read bulk delete response: %w", err)
	}

	return &BulkDeleteResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

func (c *TeamsClient) get(ctx context.Context, path string) (int, []byte, error) {
	return c.do(ctx, c.httpClient, path)
}

func (c *TeamsClient) do(ctx context.Context, hc *http.Client, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, err
	}

	resp, err := hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read %s: %w", path, err)
	}
	return resp.StatusCode, body, nil
}
