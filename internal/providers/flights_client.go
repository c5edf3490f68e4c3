package providers

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/samber/lo"

	"voyago/internal/models/response_models"
)

type FlightQuery struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Passengers    int
	ClassType     string
}

// FlightSource is the raw external flight provider. Implementations are free
// to fail; the adapter converts every failure into synthetic data.
type FlightSource interface {
	SearchFlights(ctx context.Context, q FlightQuery) ([]response_models.FlightOffer, error)
}

type FlightsClientInterface interface {
	// Search returns offers sorted ascending by price. It never fails.
	Search(ctx context.Context, q FlightQuery) []response_models.FlightOffer
	// BestOffer picks one offer by preference: "price", "duration" or
	// "direct". Nil when the search yields nothing.
	BestOffer(ctx context.Context, q FlightQuery, preference string) *response_models.FlightOffer
	// Synthetic reports whether the most recent result set was generated
	// rather than fetched. Surfaced to the user, never consulted by the
	// reconciler.
	Synthetic() bool
}

type FlightsClient struct {
	upstream  FlightSource
	synthetic atomic.Bool
}

func NewFlightsClient(upstream FlightSource) FlightsClientInterface {
	c := &FlightsClient{upstream: upstream}
	c.synthetic.Store(upstream == nil)
	return c
}

func (f *FlightsClient) Search(ctx context.Context, q FlightQuery) []response_models.FlightOffer {
	if q.Passengers < 1 {
		q.Passengers = 1
	}
	if q.ClassType == "" {
		q.ClassType = "economy"
	}

	if f.upstream != nil {
		offers, err := f.upstream.SearchFlights(ctx, q)
		if err == nil {
			// A live search with no matches is a real answer, not a
			// reason to fabricate offers.
			f.synthetic.Store(false)
			sort.Slice(offers, func(i, j int) bool { return offers[i].Price < offers[j].Price })
			return offers
		}
		log.Printf("Flight search failed, falling back to synthetic data: %v", err)
	}

	f.synthetic.Store(true)
	return f.generateSyntheticFlights(q)
}

func (f *FlightsClient) BestOffer(ctx context.Context, q FlightQuery, preference string) *response_models.FlightOffer {
	offers := f.Search(ctx, q)
	if len(offers) == 0 {
		return nil
	}

	switch preference {
	case "duration":
		best := lo.MinBy(offers, func(a, b response_models.FlightOffer) bool {
			return durationMinutes(a.Duration) < durationMinutes(b.Duration)
		})
		return &best
	case "direct":
		direct := lo.Filter(offers, func(o response_models.FlightOffer, _ int) bool { return o.Stops == 0 })
		if len(direct) > 0 {
			return &direct[0]
		}
		return &offers[0]
	default:
		// Offers arrive sorted by price.
		return &offers[0]
	}
}

func (f *FlightsClient) Synthetic() bool { return f.synthetic.Load() }

var syntheticAirlines = []string{
	"American Airlines", "United Airlines", "Delta Air Lines",
	"JetBlue Airways", "Southwest Airlines", "Alaska Airlines",
}

var classBasePrices = map[string]float64{
	"economy":         300,
	"premium_economy": 600,
	"business":        1200,
	"first":           2500,
}

// generateSyntheticFlights produces 8-12 plausible offers in the normalized
// schema so downstream reconciliation is identical on real or synthetic data.
func (f *FlightsClient) generateSyntheticFlights(q FlightQuery) []response_models.FlightOffer {
	basePrice, ok := classBasePrices[strings.ToLower(q.ClassType)]
	if !ok {
		basePrice = 300
	}

	// Round trips typically cost 1.7-2x a one-way ticket.
	priceMultiplier := 1.0
	if q.ReturnDate != "" {
		priceMultiplier = 1.85
	}

	count := 8 + rand.Intn(5)
	offers := make([]response_models.FlightOffer, 0, count)

	for i := 0; i < count; i++ {
		depHour := 6 + (i*2)%18
		depMinute := randomQuarter()
		durHours := 3 + rand.Intn(10)
		durMinutes := randomQuarter()

		price := basePrice * (0.7 + rand.Float64()*0.6) * priceMultiplier * float64(q.Passengers)

		offer := response_models.FlightOffer{
			Airline:       syntheticAirlines[rand.Intn(len(syntheticAirlines))],
			FlightNumber:  strconv.Itoa(100 + rand.Intn(9900)),
			DepartureTime: fmt.Sprintf("%02d:%02d", depHour, depMinute),
			ArrivalTime:   arrivalTime(depHour, depMinute, durHours, durMinutes),
			Duration:      fmt.Sprintf("%dh %dm", durHours, durMinutes),
			Price:         float64(int(price)),
			Currency:      "USD",
			ClassType:     q.ClassType,
			Stops:         randomStops(),
			TripType:      "one_way",
		}

		if q.ReturnDate != "" {
			retHour := 14 + (i*2)%10
			retMinute := randomQuarter()
			retDurHours := 3 + rand.Intn(10)
			retDurMinutes := randomQuarter()

			offer.TripType = "return"
			offer.ReturnDate = q.ReturnDate
			offer.ReturnAirline = syntheticAirlines[rand.Intn(len(syntheticAirlines))]
			offer.ReturnFlightNumber = strconv.Itoa(100 + rand.Intn(9900))
			offer.ReturnDepartureTime = fmt.Sprintf("%02d:%02d", retHour, retMinute)
			offer.ReturnArrivalTime = arrivalTime(retHour, retMinute, retDurHours, retDurMinutes)
			offer.ReturnDuration = fmt.Sprintf("%dh %dm", retDurHours, retDurMinutes)
			offer.ReturnStops = randomStops()
		}

		offers = append(offers, offer)
	}

	sort.Slice(offers, func(i, j int) bool { return offers[i].Price < offers[j].Price })
	return offers
}

func randomQuarter() int {
	return []int{0, 15, 30, 45}[rand.Intn(4)]
}

// randomStops: 70% direct, 25% one stop, 5% two.
func randomStops() int {
	p := rand.Float64()
	switch {
	case p < 0.7:
		return 0
	case p < 0.95:
		return 1
	default:
		return 2
	}
}

func arrivalTime(depHour, depMinute, durHours, durMinutes int) string {
	arrHour := (depHour + durHours) % 24
	arrMin := (depMinute + durMinutes) % 60
	if depMinute+durMinutes >= 60 {
		arrHour = (arrHour + 1) % 24
	}
	return fmt.Sprintf("%02d:%02d", arrHour, arrMin)
}

func durationMinutes(d string) int {
	parts := strings.Fields(strings.ReplaceAll(strings.ReplaceAll(d, "h", " "), "m", ""))
	if len(parts) == 0 {
		return 1 << 30
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 1 << 30
	}
	minutes := 0
	if len(parts) > 1 {
		minutes, _ = strconv.Atoi(parts[1])
	}
	return hours*60 + minutes
}

// AirlineName maps an IATA carrier code to a display name.
func AirlineName(carrierCode string) string {
	names := map[string]string{
		"AA": "American Airlines",
		"UA": "United Airlines",
		"DL": "Delta Air Lines",
		"BA": "British Airways",
		"AF": "Air France",
		"LH": "Lufthansa",
		"KL": "KLM",
		"VS": "Virgin Atlantic",
		"EK": "Emirates",
		"SQ": "Singapore Airlines",
		"B6": "JetBlue Airways",
		"AS": "Alaska Airlines",
		"WN": "Southwest Airlines",
	}
	if name, ok := names[carrierCode]; ok {
		return name
	}
	return "Airline " + carrierCode
}

// FormatISODuration converts an ISO 8601 duration like PT5H30M into the
// display form used across offers (5h 30m).
func FormatISODuration(duration string) string {
	if !strings.HasPrefix(duration, "PT") {
		return duration
	}

	rest := duration[2:]
	hours, minutes := 0, 0

	if idx := strings.Index(rest, "H"); idx != -1 {
		hours, _ = strconv.Atoi(rest[:idx])
		rest = rest[idx+1:]
	}
	if idx := strings.Index(rest, "M"); idx != -1 {
		minutes, _ = strconv.Atoi(rest[:idx])
	}

	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return "N/A"
	}
}
