package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	regmodels "capreg/internal/registration/models"
	"capreg/internal/registration/service"
	"capreg/internal/registration/validation"
	"capreg/pkg/platform/privacy"
)

var errAbandoned = errors.New("registration abandoned")

// wizard drives the registration service from line-oriented input.
type wizard struct {
	svc       *service.Service
	validator *validation.Validator
	in        *bufio.Scanner
	out       io.Writer
	// readSecret reads a password without echo. Nil means plain line input.
	readSecret func() (string, error)
}

func newWizard(svc *service.Service, v *validation.Validator, in io.Reader, out io.Writer) *wizard {
	return &wizard{
		svc:       svc,
		validator: v,
		in:        bufio.NewScanner(in),
		out:       out,
	}
}

// Run takes the candidate from the exam lookup to a confirmed application.
func (w *wizard) Run(ctx context.Context) error {
	w.printf("Candidate registration\n======================\n")

	steps := []func(context.Context) error{
		w.examStep,
		w.formStep,
		w.submitStep,
		w.otpStep,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return err
		}
	}

	state := w.svc.State()
	w.printf("\nRegistration complete.\nApplication ID: %s\nKeep this ID for all further correspondence.\n", state.ApplicationID)
	return nil
}

func (w *wizard) examStep(ctx context.Context) error {
	w.printf("\nStep 1: exam details\n")
	for {
		examType, err := w.ask("Exam type (NEET/MHT-CET)", "")
		if err != nil {
			return err
		}
		roll, err := w.ask("Roll number", "")
		if err != nil {
			return err
		}
		dob, err := w.ask("Date of birth as on exam records (YYYY-MM-DD)", "")
		if err != nil {
			return err
		}

		req := regmodels.ExamValidationRequest{
			ExamType:    regmodels.ExamType(strings.ToUpper(examType)),
			RollNumber:  roll,
			DateOfBirth: dob,
		}
		if err := w.validator.ValidateExamRequest(req); err != nil {
			w.printFieldErrors(err)
			continue
		}

		res, err := w.svc.ValidateExam(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.printf("  ! %s\n", service.MessageOf(err))
			continue
		}

		w.svc.UpdateForm(regmodels.DraftPatch{
			ExamType:       regmodels.Ptr(req.ExamType),
			ExamRollNumber: regmodels.Ptr(req.RollNumber),
			DateOfBirth:    regmodels.Ptr(req.DateOfBirth),
			DOB:            regmodels.Ptr(req.DateOfBirth),
		})
		if res.Score != nil {
			w.printf("  Record found: %s (score %.2f)\n", res.CandidateName, *res.Score)
		} else {
			w.printf("  Record found: %s\n", res.CandidateName)
		}
		return nil
	}
}

func (w *wizard) formStep(ctx context.Context) error {
	for _, sec := range formSections() {
		w.printf("\n%s\n", sec.title)
		if err := w.fill(ctx, sec.fields); err != nil {
			return err
		}
	}
	return w.checkDuplicates(ctx)
}

// fill prompts for every field, then re-prompts only the ones that fail
// validation until the section is clean.
func (w *wizard) fill(ctx context.Context, fields []field) error {
	pending := fields
	for len(pending) > 0 {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		for _, f := range pending {
			if err := w.prompt(f); err != nil {
				return err
			}
		}

		names := make([]string, len(fields))
		for i, f := range fields {
			names[i] = f.name
		}
		err := w.validator.ValidateDraftFields(w.svc.State().FormData, names...)
		if err == nil {
			return nil
		}
		var fieldErrs validation.FieldErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		w.printFieldErrors(fieldErrs)

		pending = pending[:0:0]
		for _, f := range fields {
			if _, failed := fieldErrs[f.name]; failed {
				pending = append(pending, f)
			}
		}
	}
	return nil
}

func (w *wizard) prompt(f field) error {
	current := f.get(w.svc.State().FormData)

	var (
		value string
		err   error
	)
	switch {
	case f.secret && w.readSecret != nil:
		w.printf("%s: ", f.label)
		value, err = w.readSecret()
	case f.secret:
		value, err = w.ask(f.label, "")
	default:
		value, err = w.ask(f.label, current)
	}
	if err != nil {
		return err
	}
	if value == "" {
		value = current
	}
	w.svc.UpdateForm(f.set(value))
	return nil
}

// checkDuplicates asks for new contacts while either is already registered.
// A failed lookup is reported and skipped; the backend rejects duplicates anyway.
func (w *wizard) checkDuplicates(ctx context.Context) error {
	for {
		draft := w.svc.State().FormData
		report, err := w.svc.CheckContactDuplicates(ctx, draft.MobileNo, draft.Email)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.printf("  ! %s\n", service.MessageOf(err))
			return nil
		}
		if !report.Any() {
			return nil
		}

		var retry []field
		if report.MobileExists {
			w.printf("  ! Mobile number is already registered\n")
			retry = append(retry, fieldByName("mobileNo"))
		}
		if report.EmailExists {
			w.printf("  ! Email is already registered\n")
			retry = append(retry, fieldByName("email"))
		}
		if err := w.fill(ctx, retry); err != nil {
			return err
		}
	}
}

func (w *wizard) submitStep(ctx context.Context) error {
	for {
		res, err := w.svc.Register(ctx, w.svc.State().FormData)
		if err == nil {
			w.printf("\nApplication %s created.\n", res.ApplicationID)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.printf("  ! %s\n", service.MessageOf(err))

		answer, err := w.ask("Edit contact details and try again? (y/n)", "y")
		if err != nil {
			return err
		}
		if !isYes(answer) {
			return errAbandoned
		}
		if err := w.fill(ctx, formSections()[1].fields); err != nil {
			return err
		}
		if err := w.checkDuplicates(ctx); err != nil {
			return err
		}
	}
}

func (w *wizard) otpStep(ctx context.Context) error {
	state := w.svc.State()
	w.printf("\nStep 3: verification\nAn OTP was sent to %s and %s.\n",
		privacy.MaskMobile(state.MobileNumber), privacy.MaskEmail(state.Email))

	for {
		if w.svc.State().CurrentStep == regmodels.StepSuccess {
			return nil
		}
		w.printf("%s\n", w.resendHint())

		input, err := w.ask("Enter OTP (r to resend, q to quit)", "")
		if err != nil {
			return err
		}

		switch strings.ToLower(input) {
		case "q":
			return errAbandoned
		case "r":
			res, err := w.svc.ResendOTP(ctx)
			if err != nil {
				w.printf("  ! %s\n", service.MessageOf(err))
				continue
			}
			w.printf("  %s (%d of %d resends used)\n", res.Message, res.AttemptsUsed, regmodels.MaxResendAttempts)
		default:
			if err := w.svc.VerifyOTP(ctx, input); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.printf("  ! %s\n", service.MessageOf(err))
			}
		}
	}
}

func (w *wizard) resendHint() string {
	state := w.svc.State()
	switch {
	case state.MaxAttemptsReached():
		return "  No resends left."
	case state.OTPResendTimer > 0:
		return fmt.Sprintf("  Resend available in %d seconds.", state.OTPResendTimer)
	default:
		return fmt.Sprintf("  %d resends left.", regmodels.MaxResendAttempts-state.OTPResendCount)
	}
}

// ask prints label, with current in brackets when set, and reads one line.
func (w *wizard) ask(label, current string) (string, error) {
	if current != "" {
		w.printf("%s [%s]: ", label, current)
	} else {
		w.printf("%s: ", label)
	}
	if !w.in.Scan() {
		if err := w.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", errAbandoned
	}
	return strings.TrimSpace(w.in.Text()), nil
}

func (w *wizard) printFieldErrors(err error) {
	var fieldErrs validation.FieldErrors
	if !errors.As(err, &fieldErrs) {
		w.printf("  ! %s\n", err)
		return
	}
	names := make([]string, 0, len(fieldErrs))
	for name := range fieldErrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		w.printf("  ! %s\n", fieldErrs[name])
	}
}

func (w *wizard) printf(format string, args ...any) {
	fmt.Fprintf(w.out, format, args...)
}

func isYes(s string) bool {
	switch strings.ToLower(s) {
	case "y", "yes":
		return true
	}
	return false
}
