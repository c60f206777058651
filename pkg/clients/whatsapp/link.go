package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// LinkClient renders click-to-chat links instead of calling the Cloud API. The shop
// staff opens the link to send the message from their own phone.
type LinkClient struct {
	baseURL string
}

// NewLinkClient builds a LinkClient. An empty base defaults to https://wa.me.
func NewLinkClient(baseURL string) *LinkClient {
	if baseURL == "" {
		baseURL = "https://wa.me"
	}
	return &LinkClient{baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (c *LinkClient) SendTextMessage(ctx context.Context, req SendTextMessageRequest) (*SendTextMessageResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.To == "" {
		return nil, errors.New("whatsapp link: recipient is required")
	}
	return &SendTextMessageResponse{
		Link: fmt.Sprintf("%s/%s?text=%s", c.baseURL, url.PathEscape(req.To), url.QueryEscape(req.Body)),
	}, nil
}
