package refdata

import (
	"context"
	"errors"
	"testing"
)

func TestStaticRatingDataMiss(t *testing.T) {
	s := NewStatic()
	key := Key{State: 17, County: 113, Crop: CropCorn, CropType: TypeGrain, Practice: PracticeNfacNonIrr}

	_, err := s.RatingData(context.Background(), key)
	if !errors.Is(err, ErrUnsupportedLocation) {
		t.Fatalf("expected ErrUnsupportedLocation, got %v", err)
	}
}

func TestStaticRatingDataHit(t *testing.T) {
	s := NewStatic()
	key := Key{State: 17, County: 113, Crop: CropCorn, CropType: TypeGrain, Practice: PracticeNfacNonIrr}
	want := &RatingData{RateMethodID: "A"}
	s.AddRating(key, want)

	got, err := s.RatingData(context.Background(), key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("got %p, want %p", got, want)
	}
}

func TestStaticComboRev(t *testing.T) {
	s := NewStatic()
	s.AddComboRev(475, 30.5, 99.2)

	std, mean, err := s.ComboRevStdMean(context.Background(), 475)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if std != 30.5 || mean != 99.2 {
		t.Errorf("got (%v, %v), want (30.5, 99.2)", std, mean)
	}

	_, _, err = s.ComboRevStdMean(context.Background(), 9999)
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
}

func TestCountyPractice(t *testing.T) {
	if got := CountyPractice(PracticeIrrigated); got != 3 {
		t.Errorf("irrigated -> %d, want 3", got)
	}
	if got := CountyPractice(PracticeFacNonIrrigated); got != 53 {
		t.Errorf("fac non-irrigated -> %d, want 53", got)
	}
}
