package providers

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"voyago/internal/models/response_models"
	"voyago/pkg/utils"
)

type HotelQuery struct {
	CityCode string
	CheckIn  string
	CheckOut string
	Adults   int
	Rooms    int
	Landmark *response_models.Coordinates
	RadiusKm int
}

// HotelSource is the raw external hotel provider, free to fail.
type HotelSource interface {
	SearchHotels(ctx context.Context, q HotelQuery) ([]response_models.HotelOffer, error)
}

type HotelsClientInterface interface {
	// Search returns offers sorted ascending by nightly price. Never fails.
	Search(ctx context.Context, q HotelQuery) []response_models.HotelOffer
	// BestOffer picks by preference: "price", "distance" or "rating".
	BestOffer(ctx context.Context, q HotelQuery, preference string) *response_models.HotelOffer
	Synthetic() bool
}

type HotelsClient struct {
	upstream  HotelSource
	synthetic atomic.Bool
}

func NewHotelsClient(upstream HotelSource) HotelsClientInterface {
	c := &HotelsClient{upstream: upstream}
	c.synthetic.Store(upstream == nil)
	return c
}

func (h *HotelsClient) Search(ctx context.Context, q HotelQuery) []response_models.HotelOffer {
	if q.Adults < 1 {
		q.Adults = 1
	}
	if q.Rooms < 1 {
		q.Rooms = 1
	}
	if q.RadiusKm <= 0 {
		q.RadiusKm = 50
	}

	if h.upstream != nil {
		offers, err := h.upstream.SearchHotels(ctx, q)
		if err == nil {
			// A live search with no matches is a real answer, not a
			// reason to fabricate offers.
			h.synthetic.Store(false)
			offers = h.withLandmarkDistances(offers, q.Landmark)
			sort.Slice(offers, func(i, j int) bool { return offers[i].PricePerNight < offers[j].PricePerNight })
			return offers
		}
		log.Printf("Hotel search failed, falling back to synthetic data: %v", err)
	}

	h.synthetic.Store(true)
	return h.generateSyntheticHotels(q)
}

func (h *HotelsClient) BestOffer(ctx context.Context, q HotelQuery, preference string) *response_models.HotelOffer {
	offers := h.Search(ctx, q)
	if len(offers) == 0 {
		return nil
	}

	switch preference {
	case "distance":
		best := lo.MinBy(offers, func(a, b response_models.HotelOffer) bool {
			return a.DistanceKm < b.DistanceKm
		})
		return &best
	case "rating":
		best := lo.MaxBy(offers, func(a, b response_models.HotelOffer) bool {
			return a.Rating > b.Rating
		})
		return &best
	default:
		return &offers[0]
	}
}

func (h *HotelsClient) Synthetic() bool { return h.synthetic.Load() }

func (h *HotelsClient) withLandmarkDistances(offers []response_models.HotelOffer, landmark *response_models.Coordinates) []response_models.HotelOffer {
	if landmark == nil {
		return offers
	}
	for i := range offers {
		if offers[i].Latitude != 0 || offers[i].Longitude != 0 {
			d := utils.HaversineKm(landmark.Lat, landmark.Lng, offers[i].Latitude, offers[i].Longitude)
			offers[i].DistanceKm = math.Round(d*100) / 100
		}
	}
	return offers
}

var hotelChains = []string{
	"Marriott", "Hilton", "Hyatt", "InterContinental",
	"Radisson", "Best Western", "Holiday Inn", "Sheraton",
	"Westin", "Four Seasons", "Ritz-Carlton", "W Hotels",
}

var hotelSuffixes = []string{"Hotel", "Inn", "Resort", "Suites", "Plaza", "Grand Hotel"}

var roomTypes = []string{
	"Standard Room", "Deluxe Room", "Superior Room",
	"Executive Suite", "Junior Suite", "Family Room",
}

var hotelTiers = []string{"budget", "mid", "upscale", "luxury"}

// generateSyntheticHotels produces 8-15 plausible offers. Nightly prices
// come from fixed tier bands, nudged upward for hotels close to the
// landmark.
func (h *HotelsClient) generateSyntheticHotels(q HotelQuery) []response_models.HotelOffer {
	nights := nightsBetween(q.CheckIn, q.CheckOut)

	centerLat, centerLng := 48.8566, 2.3522
	if q.Landmark != nil {
		centerLat, centerLng = q.Landmark.Lat, q.Landmark.Lng
	}

	count := 8 + rand.Intn(8)
	offers := make([]response_models.HotelOffer, 0, count)

	for i := 0; i < count; i++ {
		lat := centerLat + (rand.Float64()-0.5)*0.1
		lng := centerLng + (rand.Float64()-0.5)*0.1

		distanceKm := utils.HaversineKm(centerLat, centerLng, lat, lng)

		tier := hotelTiers[rand.Intn(len(hotelTiers))]
		pricePerNight := syntheticNightlyPrice(tier)

		// Closer to the landmark means pricier.
		if distanceKm < 2 {
			pricePerNight = float64(int(pricePerNight * 1.3))
		} else if distanceKm < 5 {
			pricePerNight = float64(int(pricePerNight * 1.1))
		}

		offers = append(offers, response_models.HotelOffer{
			HotelID:       "SYN_" + uuid.NewString()[:8],
			Name:          fmt.Sprintf("%s %s %s", hotelChains[rand.Intn(len(hotelChains))], hotelSuffixes[rand.Intn(len(hotelSuffixes))], q.CityCode),
			Address:       syntheticAddress(),
			City:          q.CityCode,
			Rating:        syntheticRating(tier),
			Latitude:      math.Round(lat*1e6) / 1e6,
			Longitude:     math.Round(lng*1e6) / 1e6,
			PricePerNight: pricePerNight,
			TotalPrice:    pricePerNight * float64(nights) * float64(q.Rooms),
			Currency:      "USD",
			RoomType:      roomTypes[rand.Intn(len(roomTypes))],
			DistanceKm:    math.Round(distanceKm*100) / 100,
			Amenities:     tierAmenities(tier),
			Tier:          tier,
			CheckInDate:   q.CheckIn,
			CheckOutDate:  q.CheckOut,
		})
	}

	sort.Slice(offers, func(i, j int) bool { return offers[i].PricePerNight < offers[j].PricePerNight })
	return offers
}

func syntheticNightlyPrice(tier string) float64 {
	switch tier {
	case "budget":
		return float64(60 + rand.Intn(41))
	case "mid":
		return float64(100 + rand.Intn(81))
	case "upscale":
		return float64(180 + rand.Intn(171))
	default:
		return float64(350 + rand.Intn(451))
	}
}

func syntheticRating(tier string) float64 {
	var low, high float64
	switch tier {
	case "budget":
		low, high = 2.5, 3.5
	case "mid":
		low, high = 3.5, 4.0
	case "upscale":
		low, high = 4.0, 4.5
	default:
		low, high = 4.5, 5.0
	}
	return math.Round((low+rand.Float64()*(high-low))*10) / 10
}

func tierAmenities(tier string) []string {
	switch tier {
	case "upscale", "luxury":
		return []string{"Free WiFi", "Pool", "Spa", "Gym", "Restaurant", "Room Service"}
	case "mid":
		return []string{"Free WiFi", "Gym", "Restaurant", "Parking"}
	default:
		return []string{"Free WiFi", "Parking"}
	}
}

func syntheticAddress() string {
	streets := []string{"Main St", "Central Ave", "Park Blvd", "Market St"}
	return fmt.Sprintf("%d %s", 1+rand.Intn(200), streets[rand.Intn(len(streets))])
}

func nightsBetween(checkIn, checkOut string) int {
	in, err1 := time.Parse("2006-01-02", checkIn)
	out, err2 := time.Parse("2006-01-02", checkOut)
	if err1 != nil || err2 != nil {
		return 1
	}
	nights := int(out.Sub(in).Hours() / 24)
	if nights < 1 {
		return 1
	}
	return nights
}
