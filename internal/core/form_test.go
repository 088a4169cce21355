package core

import (
	"errors"
	"testing"
	"time"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return ts
}

func TestFormNormalize(t *testing.T) {
	tests := []struct {
		name    string
		form    FormInput
		want    Entry
		wantErr error
	}{
		{
			name: "cash in with pages",
			form: FormInput{Type: CashIn, Amount: "100", Category: "Sales", PaymentMode: "Cash", PrinterName: "Epson L3250", Pages: "5"},
			want: Entry{Type: CashIn, Amount: 100, Category: "Sales", PaymentMode: "Cash", PrinterName: "Epson L3250", Pages: 5},
		},
		{
			name: "cash out forces printer empty and pages zero",
			form: FormInput{Type: CashOut, Amount: "42.5", Category: "Rent", PaymentMode: "Bank", PrinterName: "Epson L3250", Pages: "9"},
			want: Entry{Type: CashOut, Amount: 42.5, Category: "Rent", PaymentMode: "Bank"},
		},
		{
			name: "due amount parsed only when due",
			form: FormInput{Type: CashOut, Amount: "10", Category: "Other", PaymentMode: "Cash", IsDue: true, DueAmount: "7"},
			want: Entry{Type: CashOut, Amount: 10, Category: "Other", PaymentMode: "Cash", IsDue: true, DueAmount: 7},
		},
		{
			name: "due amount ignored when not due",
			form: FormInput{Type: CashOut, Amount: "10", Category: "Other", PaymentMode: "Cash", DueAmount: "7"},
			want: Entry{Type: CashOut, Amount: 10, Category: "Other", PaymentMode: "Cash"},
		},
		{
			name: "fractional due amount truncates",
			form: FormInput{Type: CashOut, Amount: "10", Category: "Other", PaymentMode: "Cash", IsDue: true, DueAmount: "7.9"},
			want: Entry{Type: CashOut, Amount: 10, Category: "Other", PaymentMode: "Cash", IsDue: true, DueAmount: 7},
		},
		{
			name:    "missing amount rejected",
			form:    FormInput{Type: CashIn, Category: "Sales", PaymentMode: "Cash", Pages: "1"},
			wantErr: ErrAmountRequired,
		},
		{
			name:    "unparseable amount rejected",
			form:    FormInput{Type: CashIn, Amount: "lots", Category: "Sales", PaymentMode: "Cash", Pages: "1"},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount rejected",
			form:    FormInput{Type: CashIn, Amount: "-5", Category: "Sales", PaymentMode: "Cash", Pages: "1"},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "unparseable pages rejected",
			form:    FormInput{Type: CashIn, Amount: "5", Category: "Sales", PaymentMode: "Cash", Pages: "many"},
			wantErr: ErrInvalidPages,
		},
		{
			name:    "unparseable due amount rejected",
			form:    FormInput{Type: CashOut, Amount: "5", Category: "Sales", PaymentMode: "Cash", IsDue: true, DueAmount: "x"},
			wantErr: ErrInvalidDueAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.form.Normalize()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Normalize() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDefaultFormSticky(t *testing.T) {
	f := DefaultForm()
	f.Type = CashOut
	f.Category = "Rent"
	f.PaymentMode = "bKash"
	f.Amount = "12"
	f.Contact = "someone"
	f.Remark = "note"
	f.Pages = "3"
	f.IsDue = true
	f.DueAmount = "4"

	f.ClearTransient()

	if f.Type != CashOut || f.Category != "Rent" || f.PaymentMode != "bKash" {
		t.Errorf("sticky fields were cleared: %+v", f)
	}
	if f.Amount != "" || f.Contact != "" || f.Remark != "" || f.Pages != "" || f.IsDue || f.DueAmount != "" {
		t.Errorf("transient fields survived: %+v", f)
	}
}

func TestEntryStampNow(t *testing.T) {
	var e Entry
	e.StampNow(mustTime(t, "2024-01-02T09:05:59"))
	if e.Date != "2024-01-02" {
		t.Errorf("Date = %q, want 2024-01-02", e.Date)
	}
	if e.Time != "09:05" {
		t.Errorf("Time = %q, want 09:05", e.Time)
	}
}
