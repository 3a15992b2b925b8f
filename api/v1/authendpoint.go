package v1

import (
	"context"

	"sitelink.com/sitelink/model"
)

type AuthEndpoint struct {
	transport *Transport
}

func (ep *AuthEndpoint) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	resp, err := ep.transport.Post(ctx, "/api/auth/login/", model.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	return decode[*model.LoginResponse](resp)
}
