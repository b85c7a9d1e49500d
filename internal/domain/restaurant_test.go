package domain

import (
	"errors"
	"testing"
)

func validFields() RestaurantFields {
	rating := 4.4
	return RestaurantFields{
		PlaceID:     "p1",
		Name:        "Joe's Pizza",
		BM25Text:    "pizza slice crispy crust",
		Types:       []string{"pizza_restaurant", "restaurant"},
		PrimaryType: "pizza_restaurant",
		Borough:     BoroughManhattan,
		Grid:        "MN17",
		District:    "Manhattan CD 5",
		Address:     "7 Carmine St",
		Rating:      &rating,
		RatingCount: 812,
		Confidence:  0.92,
		Sentiments:  map[Aspect]float64{AspectFood: 0.9, AspectService: 0.6},
		ZScores:     map[Aspect]float64{AspectFood: 1.4},
	}
}

func TestNewRestaurant_Valid(t *testing.T) {
	r, err := NewRestaurant(validFields())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.PlaceID() != "p1" {
		t.Errorf("PlaceID() = %q", r.PlaceID())
	}
	if r.Name() != "Joe's Pizza" {
		t.Errorf("Name() = %q", r.Name())
	}
	rating, ok := r.Rating()
	if !ok || rating != 4.4 {
		t.Errorf("Rating() = (%v, %v), want (4.4, true)", rating, ok)
	}
	if v, ok := r.Sentiment(AspectFood); !ok || v != 0.9 {
		t.Errorf("Sentiment(food) = (%v, %v)", v, ok)
	}
	if z, ok := r.ZScore(AspectFood); !ok || z != 1.4 {
		t.Errorf("ZScore(food) = (%v, %v)", z, ok)
	}
}

func TestNewRestaurant_MissingPlaceID(t *testing.T) {
	f := validFields()
	f.PlaceID = ""
	_, err := NewRestaurant(f)
	if err == nil {
		t.Fatal("expected error for empty place id")
	}
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestNewRestaurant_MissingName(t *testing.T) {
	f := validFields()
	f.Name = ""
	if _, err := NewRestaurant(f); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestNewRestaurant_RatingOutOfRange(t *testing.T) {
	for _, v := range []float64{-0.5, 5.5} {
		f := validFields()
		f.Rating = &v
		if _, err := NewRestaurant(f); err == nil {
			t.Errorf("expected error for rating %v", v)
		}
	}
}

func TestNewRestaurant_UnknownSentimentAspect(t *testing.T) {
	f := validFields()
	f.Sentiments = map[Aspect]float64{"vibes": 0.8}
	_, err := NewRestaurant(f)
	if err == nil {
		t.Fatal("expected error for unknown aspect")
	}
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestRestaurant_UnratedVsZero(t *testing.T) {
	f := validFields()
	f.Rating = nil
	r := ReconstructRestaurant(f)
	if _, ok := r.Rating(); ok {
		t.Error("nil rating column must report ok=false")
	}

	zero := 0.0
	f.Rating = &zero
	r = ReconstructRestaurant(f)
	if v, ok := r.Rating(); !ok || v != 0 {
		t.Errorf("explicit zero rating = (%v, %v), want (0, true)", v, ok)
	}
}

func TestRestaurant_UnscoredAspect(t *testing.T) {
	r := ReconstructRestaurant(validFields())
	if _, ok := r.Sentiment(AspectHygiene); ok {
		t.Error("aspect absent from the row must report ok=false")
	}
}

func TestRestaurant_HasAnyType(t *testing.T) {
	r := ReconstructRestaurant(validFields())
	if !r.HasAnyType([]string{"pizza_restaurant"}) {
		t.Error("HasAnyType(pizza_restaurant) = false, want true")
	}
	if r.HasAnyType([]string{"thai_restaurant"}) {
		t.Error("HasAnyType(thai_restaurant) = true, want false")
	}
	if r.HasAnyType(nil) {
		t.Error("empty desired list must never match")
	}
}

func TestRestaurant_TopAttributes(t *testing.T) {
	f := validFields()
	f.Sentiments = map[Aspect]float64{
		AspectFood:     0.95,
		AspectService:  0.70,
		AspectAmbience: 0.85,
		AspectPrice:    0.20,
	}
	r := ReconstructRestaurant(f)

	got := r.TopAttributes(0.6, 2)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Strongest aspect first.
	if got[0] != AspectFood || got[1] != AspectAmbience {
		t.Errorf("TopAttributes() = %v, want [food ambience]", got)
	}
}

func TestRestaurant_TopAttributes_ThresholdAndUnscored(t *testing.T) {
	f := validFields()
	f.Sentiments = map[Aspect]float64{AspectPrice: 0.1}
	r := ReconstructRestaurant(f)

	if got := r.TopAttributes(0.5, 3); len(got) != 0 {
		t.Errorf("below-threshold attrs = %v, want none", got)
	}
}

func TestRestaurant_SentimentsCopy(t *testing.T) {
	r := ReconstructRestaurant(validFields())
	m := r.Sentiments()
	m[AspectFood] = -1
	if v, _ := r.Sentiment(AspectFood); v != 0.9 {
		t.Error("Sentiments() must return a copy")
	}
}

func TestReconstructRestaurant_CopiesTypes(t *testing.T) {
	f := validFields()
	types := []string{"cafe"}
	f.Types = types
	r := ReconstructRestaurant(f)
	types[0] = "bar"
	if r.Types()[0] != "cafe" {
		t.Error("ReconstructRestaurant must copy the types slice")
	}
}
