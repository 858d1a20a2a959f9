// Package gateway implements the Viva Wallet smart-checkout client.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/x67digital/marketplace/internal/domain"
	"github.com/x67digital/marketplace/internal/ports"
)

type Config struct {
	AccountsURL  string
	APIURL       string
	CheckoutURL  string
	ClientID     string
	ClientSecret string
	SourceCode   string
	Timeout      time.Duration
}

type VivaClient struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewVivaClient(cfg Config, logger *slog.Logger) *VivaClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &VivaClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// token returns a cached OAuth access token, refreshing it via the
// client-credentials grant shortly before expiry.
func (c *VivaClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.AccountsURL+"/connect/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: gateway token: %s", domain.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: gateway token: status %d", domain.ErrDependencyUnavailable, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil || tr.AccessToken == "" {
		return "", fmt.Errorf("%w: gateway token: bad response", domain.ErrDependencyUnavailable)
	}

	c.accessToken = tr.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tr.ExpiresIn-60) * time.Second)
	return c.accessToken, nil
}

type orderRequest struct {
	Amount         int64         `json:"amount"`
	CustomerTrns   string        `json:"customerTrns"`
	Customer       orderCustomer `json:"customer"`
	PaymentTimeout int           `json:"paymentTimeout"`
	Preauth        bool          `json:"preauth"`
	SourceCode     string        `json:"sourceCode,omitempty"`
	MerchantTrns   string        `json:"merchantTrns"`
}

type orderCustomer struct {
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	RequestLang string `json:"requestLang"`
}

type orderResponse struct {
	OrderCode int64 `json:"orderCode"`
}

func (c *VivaClient) CreateOrder(ctx context.Context, params ports.GatewayOrderParams) (ports.GatewayOrder, error) {
	tok, err := c.token(ctx)
	if err != nil {
		return ports.GatewayOrder{}, err
	}

	body, err := json.Marshal(orderRequest{
		Amount:         params.AmountMinor,
		CustomerTrns:   params.Description,
		Customer:       orderCustomer{Email: params.CustomerEmail, FullName: params.CustomerName, RequestLang: "en-GB"},
		PaymentTimeout: 1800,
		SourceCode:     c.cfg.SourceCode,
		MerchantTrns:   params.MerchantRef,
	})
	if err != nil {
		return ports.GatewayOrder{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.APIURL+"/checkout/v2/orders", strings.NewReader(string(body)))
	if err != nil {
		return ports.GatewayOrder{}, err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return ports.GatewayOrder{}, fmt.Errorf("%w: gateway order: %s", domain.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("gateway rejected order", "status", resp.StatusCode)
		return ports.GatewayOrder{}, fmt.Errorf("%w: gateway order: status %d", domain.ErrDependencyUnavailable, resp.StatusCode)
	}

	var or orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil || or.OrderCode == 0 {
		return ports.GatewayOrder{}, fmt.Errorf("%w: gateway order: bad response", domain.ErrDependencyUnavailable)
	}

	return ports.GatewayOrder{
		OrderCode:   or.OrderCode,
		CheckoutURL: fmt.Sprintf("%s/web/checkout?ref=%d", c.cfg.CheckoutURL, or.OrderCode),
	}, nil
}
