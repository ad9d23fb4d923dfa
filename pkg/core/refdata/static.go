package refdata

import (
	"context"
	"fmt"
)

// Static is an in-memory Provider backed by maps. It serves tests and
// hosts that preload their reference data at startup.
type Static struct {
	ratings map[Key]*RatingData
	combo   map[int][2]float64
}

func NewStatic() *Static {
	return &Static{
		ratings: make(map[Key]*RatingData),
		combo:   make(map[int][2]float64),
	}
}

// AddRating registers a rating dataset for a key.
func (s *Static) AddRating(key Key, data *RatingData) {
	s.ratings[key] = data
}

// AddComboRev registers a (std, mean) pair for a lookup id.
func (s *Static) AddComboRev(lookupID int, std, mean float64) {
	s.combo[lookupID] = [2]float64{std, mean}
}

func (s *Static) RatingData(ctx context.Context, key Key) (*RatingData, error) {
	data, ok := s.ratings[key]
	if !ok {
		return nil, fmt.Errorf("%w: state=%d county=%d crop=%d type=%d practice=%d",
			ErrUnsupportedLocation, key.State, key.County, key.Crop, key.CropType, key.Practice)
	}
	return data, nil
}

func (s *Static) ComboRevStdMean(ctx context.Context, lookupID int) (float64, float64, error) {
	pair, ok := s.combo[lookupID]
	if !ok {
		return 0, 0, fmt.Errorf("%w: combo revenue factor id %d", ErrMissing, lookupID)
	}
	return pair[0], pair[1], nil
}
