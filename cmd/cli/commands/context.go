package commands

import (
	"bufio"
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-profile/internal/config"
	"github.com/jakechorley/volunteer-profile/pkg/clients/apiclient"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg    *config.Config
	Env    string
	Client *apiclient.Client
	Logger *zap.Logger
	Ctx    context.Context

	// In is shared by the interactive session and the profile editor so
	// buffered input is never split between two readers.
	In  *bufio.Scanner
	Out io.Writer
}
