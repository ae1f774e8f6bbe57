package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"capreg/pkg/platform/privacy"
)

const msgDuplicateCheckFailed = "Unable to check for an existing registration"

// DuplicateReport says which contacts already belong to a registration.
type DuplicateReport struct {
	MobileExists bool
	EmailExists  bool
}

// Any reports whether either contact is taken.
func (r DuplicateReport) Any() bool {
	return r.MobileExists || r.EmailExists
}

// CheckMobileDuplicate reports whether mobile is already registered. It is an
// optional pre-check and never changes the flow state.
func (s *Service) CheckMobileDuplicate(ctx context.Context, mobile string) (bool, error) {
	exists, err := s.api.CheckMobileDuplicate(ctx, mobile)
	if err != nil {
		return false, callError(OpCheckDuplicate, err, msgDuplicateCheckFailed)
	}
	return exists, nil
}

// CheckEmailDuplicate reports whether email is already registered. It is an
// optional pre-check and never changes the flow state.
func (s *Service) CheckEmailDuplicate(ctx context.Context, email string) (bool, error) {
	exists, err := s.api.CheckEmailDuplicate(ctx, email)
	if err != nil {
		return false, callError(OpCheckDuplicate, err, msgDuplicateCheckFailed)
	}
	return exists, nil
}

// CheckContactDuplicates runs both lookups concurrently. Empty values are
// skipped. The first failure cancels the other lookup.
func (s *Service) CheckContactDuplicates(ctx context.Context, mobile, email string) (report DuplicateReport, err error) {
	ctx, span := s.startSpan(ctx, OpCheckDuplicate)
	start := time.Now()
	defer func() {
		s.finish(ctx, span, OpCheckDuplicate, start, err,
			"mobile", privacy.MaskMobile(mobile),
			"email", privacy.MaskEmail(email),
		)
	}()

	g, gctx := errgroup.WithContext(ctx)

	if mobile != "" {
		g.Go(func() error {
			exists, err := s.CheckMobileDuplicate(gctx, mobile)
			report.MobileExists = exists
			return err
		})
	}
	if email != "" {
		g.Go(func() error {
			exists, err := s.CheckEmailDuplicate(gctx, email)
			report.EmailExists = exists
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return DuplicateReport{}, err
	}
	return report, nil
}
