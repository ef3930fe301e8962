package taxi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ErrMissingColumn is returned when a stage needs a column the frame lacks.
var ErrMissingColumn = errors.New("missing column")

// Input columns
const (
	VendorID             = "VendorID"
	PickupDatetime       = "tpep_pickup_datetime"
	DropoffDatetime      = "tpep_dropoff_datetime"
	PassengerCount       = "passenger_count"
	TripDistance         = "trip_distance"
	PickupLongitude      = "pickup_longitude"
	PickupLatitude       = "pickup_latitude"
	RateCodeID           = "RateCodeID"
	StoreAndFwdFlag      = "store_and_fwd_flag"
	DropoffLongitude     = "dropoff_longitude"
	DropoffLatitude      = "dropoff_latitude"
	PaymentType          = "payment_type"
	FareAmount           = "fare_amount"
	Extra                = "extra"
	MTATax               = "mta_tax"
	TipAmount            = "tip_amount"
	TollsAmount          = "tolls_amount"
	ImprovementSurcharge = "improvement_surcharge"
	TotalAmount          = "total_amount"
)

// Derived columns
const (
	TripDurationMinutes = "trip_duration_minutes"
	Date                = "date"
	Hour                = "hour"
	DayOfWeek           = "day_of_week"
	DistanceBin         = "distance_bin"
	distanceBinOrder    = "distance_bin_order"
)

// Columns lists the input schema in file order.
var Columns = []string{
	VendorID, PickupDatetime, DropoffDatetime, PassengerCount, TripDistance,
	PickupLongitude, PickupLatitude, RateCodeID, StoreAndFwdFlag,
	DropoffLongitude, DropoffLatitude, PaymentType, FareAmount, Extra, MTATax,
	TipAmount, TollsAmount, ImprovementSurcharge, TotalAmount,
}

// RequiredColumns are the input columns the stages read.
var RequiredColumns = []string{
	PickupDatetime, DropoffDatetime, PassengerCount, TripDistance,
	PickupLongitude, PickupLatitude, DropoffLongitude, DropoffLatitude,
	TotalAmount,
}

// columnTypes pins the parsed type of known columns; anything else is detected.
var columnTypes = map[string]series.Type{
	VendorID:             series.Int,
	PickupDatetime:       series.String,
	DropoffDatetime:      series.String,
	PassengerCount:       series.Float,
	TripDistance:         series.Float,
	PickupLongitude:      series.Float,
	PickupLatitude:       series.Float,
	RateCodeID:           series.Int,
	StoreAndFwdFlag:      series.String,
	DropoffLongitude:     series.Float,
	DropoffLatitude:      series.Float,
	PaymentType:          series.Int,
	FareAmount:           series.Float,
	Extra:                series.Float,
	MTATax:               series.Float,
	TipAmount:            series.Float,
	TollsAmount:          series.Float,
	ImprovementSurcharge: series.Float,
	TotalAmount:          series.Float,
}

var nanValues = []string{"NA", "NaN", "<nil>", "", "null"}

func requireColumns(df dataframe.DataFrame, cols ...string) error {
	have := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		have[name] = true
	}
	var missing []string
	for _, c := range cols {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// present returns the subset of cols that df has, in the given order.
func present(df dataframe.DataFrame, cols ...string) []string {
	have := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		have[name] = true
	}
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if have[c] {
			out = append(out, c)
		}
	}
	return out
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	return len(present(df, name)) == 1
}
