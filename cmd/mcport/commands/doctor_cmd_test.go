package commands

import (
	"testing"

	"github.com/mcport/mcport/internal/doctor"
	"github.com/mcport/mcport/internal/errors"
)

func TestDoctorExitErr(t *testing.T) {
	clean := &doctor.Report{Summary: doctor.Summary{Passed: 3}}
	if err := doctorExitErr(clean); err != nil {
		t.Errorf("clean report: got %v, want nil", err)
	}

	warned := &doctor.Report{Summary: doctor.Summary{Passed: 2, Warnings: 1}}
	if err := doctorExitErr(warned); err != nil {
		t.Errorf("warning-only report: got %v, want nil", err)
	}

	failed := &doctor.Report{Summary: doctor.Summary{Errors: 1}}
	err := doctorExitErr(failed)
	if err == nil {
		t.Fatal("error report: got nil, want exit error")
	}
	var exitErr *errors.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error report: got %T, want *errors.ExitError", err)
	}
	if exitErr.Code != errors.ExitUser {
		t.Errorf("exit code = %d, want %d", exitErr.Code, errors.ExitUser)
	}
}
