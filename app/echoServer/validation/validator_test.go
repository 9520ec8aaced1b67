package validation

import "testing"

type statusReq struct {
	Status string `validate:"required,rental_status"`
}

func TestRentalStatusRule(t *testing.T) {
	v := New()

	for _, s := range []string{"pending", "active", "completed", "cancelled"} {
		if err := v.Validate(statusReq{Status: s}); err != nil {
			t.Fatalf("%q rejected: %v", s, err)
		}
	}
	if err := v.Validate(statusReq{Status: "shredded"}); err == nil {
		t.Fatal("unknown status must fail validation")
	}
	if err := v.Validate(statusReq{}); err == nil {
		t.Fatal("empty status must fail validation")
	}
}
