package cli

import (
	"errors"

	"github.com/julianstephens/habitbloom/internal/keyring"
)

type TokenCmd struct {
	Set      TokenSetCmd      `cmd:"" help:"Store an API token in the OS keyring."`
	Generate TokenGenerateCmd `cmd:"" help:"Generate, store and print a new API token."`
	Delete   TokenDeleteCmd   `cmd:"" help:"Remove the API token from the OS keyring."`
	Status   TokenStatusCmd   `cmd:"" help:"Show whether an API token is stored." default:"1"`
}

type TokenSetCmd struct {
	Token string `arg:"" help:"Token value (at least 16 characters)."`
}

func (c *TokenSetCmd) Run(ctx *Context) error {
	if err := keyring.SetToken(c.Token); err != nil {
		return err
	}
	ctx.println("✓ API token stored in the OS keyring")
	return nil
}

type TokenGenerateCmd struct{}

func (c *TokenGenerateCmd) Run(ctx *Context) error {
	token, err := keyring.GenerateToken()
	if err != nil {
		return err
	}
	if err := keyring.SetToken(token); err != nil {
		return err
	}
	ctx.println("✓ New API token stored in the OS keyring:")
	ctx.println(token)
	return nil
}

type TokenDeleteCmd struct{}

func (c *TokenDeleteCmd) Run(ctx *Context) error {
	if err := keyring.DeleteToken(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			ctx.println("No API token stored.")
			return nil
		}
		return err
	}
	ctx.println("✓ API token removed from the OS keyring")
	return nil
}

type TokenStatusCmd struct{}

func (c *TokenStatusCmd) Run(ctx *Context) error {
	if ctx.Config.Server.Token != "" {
		ctx.println("API token: set in config (server.token)")
		return nil
	}
	_, err := keyring.GetToken()
	switch {
	case err == nil:
		ctx.println("API token: stored in the OS keyring")
	case errors.Is(err, keyring.ErrNotFound):
		ctx.println("API token: not set")
	default:
		return err
	}
	return nil
}
