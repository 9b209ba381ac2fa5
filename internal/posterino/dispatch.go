package posterino

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blacktop/posterino/internal/logutil"
	"golang.org/x/sync/errgroup"
)

// Builder constructs a Poster from validated credentials.
type Builder func(creds Credentials, opts ClientOptions) (Poster, error)

// CredentialSource resolves the credential set of a platform.
type CredentialSource interface {
	Load(platform Platform) (Credentials, error)
}

// Dispatcher fans a message out to one or all platforms.
type Dispatcher struct {
	Credentials CredentialSource
	Builders    map[Platform]Builder
	Options     ClientOptions
	// DryRun builds every client but never posts.
	DryRun bool
}

// Dispatch posts req to target, which is a platform name or All.
//
// For a single platform, a credential or construction failure is returned
// as the error with no outcomes. Post failures, and every failure in All
// mode, are captured as outcomes; the returned error then joins one labeled
// line per failed platform.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request, target string) ([]Outcome, error) {
	req.Message = NormalizeMessage(req.Message)
	if strings.TrimSpace(req.Message) == "" {
		return nil, ValidationError{Provider: "posterino", Reason: "message is required"}
	}

	if strings.EqualFold(strings.TrimSpace(target), All) {
		return d.dispatchAll(ctx, req)
	}

	platform, err := ParsePlatform(target)
	if err != nil {
		return nil, err
	}

	poster, err := d.build(platform)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", platform, err)
	}

	outcome := d.post(ctx, platform, poster, req)
	if outcome.Err != nil {
		return []Outcome{outcome}, fmt.Errorf("%s: %w", platform, outcome.Err)
	}
	return []Outcome{outcome}, nil
}

func (d *Dispatcher) dispatchAll(ctx context.Context, req Request) ([]Outcome, error) {
	outcomes := make([]Outcome, len(Platforms))

	// each attempt writes only its own slot; errors are data, never returned
	var g errgroup.Group
	for i, platform := range Platforms {
		g.Go(func() error {
			outcomes[i] = d.attempt(ctx, platform, req)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", outcome.Platform, outcome.Err))
		}
	}
	return outcomes, errors.Join(errs...)
}

func (d *Dispatcher) attempt(ctx context.Context, platform Platform, req Request) Outcome {
	poster, err := d.build(platform)
	if err != nil {
		logutil.Debugf("%s: client unavailable: %v", platform, err)
		return Outcome{Platform: platform, Err: err}
	}
	return d.post(ctx, platform, poster, req)
}

func (d *Dispatcher) build(platform Platform) (Poster, error) {
	builder, ok := d.Builders[platform]
	if !ok || builder == nil {
		return nil, fmt.Errorf("platform %q is not implemented", platform)
	}
	if d.Credentials == nil {
		return nil, errors.New("no credential source configured")
	}

	creds, err := d.Credentials.Load(platform)
	if err != nil {
		return nil, err
	}
	return builder(creds, d.Options)
}

func (d *Dispatcher) post(ctx context.Context, platform Platform, poster Poster, req Request) Outcome {
	if d.DryRun {
		logutil.Debugf("[dry-run] skipping post to %s", platform)
		return Outcome{Platform: platform, Skipped: true}
	}

	logutil.Debug("posting", "platform", platform, "bytes", len(req.Message))
	receipt, err := poster.Post(ctx, req)
	if err != nil {
		logutil.Debug("post failed", "platform", platform, "err", err)
		return Outcome{Platform: platform, Err: err}
	}
	logutil.Debug("posted", "platform", platform, "id", receipt.ID)
	return Outcome{Platform: platform, Receipt: receipt}
}
