package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Damatnic/astral-planner-sub006/pkg/idx"
	"github.com/Damatnic/astral-planner-sub006/pkg/jwtx"
)

// initAuthKeys builds the Ed25519 signer and its verifying key set.
//
// With a configured key file tokens survive restarts. Without one an
// ephemeral key is generated, which is fine for development: every
// outstanding token dies with the process.
func initAuthKeys(cfg Config, logger *slog.Logger) (jwtx.Signer, *jwtx.KeySet, error) {
	var pemKey []byte

	if cfg.SigningKeyFile != "" {
		data, err := os.ReadFile(cfg.SigningKeyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("read signing key: %w", err)
		}
		pemKey = data
		logger.Info("signing key loaded", "path", cfg.SigningKeyFile)
	} else {
		data, err := jwtx.GenerateEd25519PEM()
		if err != nil {
			return nil, nil, fmt.Errorf("generate signing key: %w", err)
		}
		pemKey = data
		logger.Warn("no signing key configured, generated an ephemeral key; tokens will not survive restart")
	}

	signer, err := jwtx.NewSignerEdDSA(idx.New().String(), pemKey)
	if err != nil {
		return nil, nil, fmt.Errorf("load signing key: %w", err)
	}

	keys := jwtx.NewKeySet()
	keys.Add(signer.KID(), signer.Public())

	return signer, keys, nil
}
