package oidc

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/intelliview/intelliview-cli/internal/domain"
)

type tokenResponse struct {
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func decodeTokenResponse(body []byte) (domain.TokenBundle, error) {
	var tokens tokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil {
		return domain.TokenBundle{}, fmt.Errorf("decode token response: %w", err)
	}
	if tokens.IDToken == "" || tokens.AccessToken == "" {
		return domain.TokenBundle{}, errors.New("token response missing required fields")
	}

	return domain.TokenBundle{
		IDToken:      tokens.IDToken,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
		ExpiresIn:    tokens.ExpiresIn,
	}, nil
}
