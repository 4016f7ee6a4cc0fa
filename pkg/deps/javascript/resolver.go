package javascript

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/deprep/pkg/errors"
	"github.com/matzehuels/deprep/pkg/integrations"
)

// resolver adapts a registry client to deps.Resolver, translating transport
// errors into coded errors.
type resolver struct {
	name     string
	latest   func(context.Context, string) (string, error)
	validate func(string) error
}

func (r *resolver) Name() string { return r.name }

func (r *resolver) Latest(ctx context.Context, name string) (string, error) {
	if err := r.validate(name); err != nil {
		return "", err
	}
	v, err := r.latest(ctx, name)
	if err != nil {
		return "", classify(r.name, name, err)
	}
	return v, nil
}

func classify(registry, name string, err error) error {
	var rl *errors.RateLimitedError
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "%s: lookup of %s timed out", registry, name)
	case stderrors.Is(err, context.Canceled):
		return errors.Wrap(errors.ErrCodeCanceled, err, "%s: lookup of %s cancelled", registry, name)
	case stderrors.Is(err, integrations.ErrNotFound):
		return errors.Wrap(errors.ErrCodePackageNotFound, err, "%s: package %s not found", registry, name)
	case stderrors.As(err, &rl):
		return errors.Wrap(errors.ErrCodeRateLimited, err, "%s: rate limited while looking up %s", registry, name)
	case stderrors.Is(err, integrations.ErrInvalidResponse):
		return errors.Wrap(errors.ErrCodeInvalidResponse, err, "%s: unexpected response for %s", registry, name)
	default:
		return errors.Wrap(errors.ErrCodeNetwork, err, "%s: lookup of %s failed", registry, name)
	}
}
