package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ppiankov/essayfb/internal/util"
)

func newProxyHTTPClient(config Config, timeout time.Duration) *http.Client {
	return util.NewHTTPClient(timeout, config.HTTPProxy, config.HTTPSProxy, config.NoProxy)
}

// networkError tags transport failures with ErrNetwork, leaving context
// cancellation untouched
func networkError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}
