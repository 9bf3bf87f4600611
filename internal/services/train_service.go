package services

import (
	"net/http"
	"strings"

	"trainbuddy/internal/domain"
	"trainbuddy/internal/utils"
)

// TrainSummary is one row in a between-stations search result.
type TrainSummary struct {
	TrainNumber   string   `json:"trainNumber"`
	TrainName     string   `json:"trainName"`
	FromStation   string   `json:"fromStation"`
	ToStation     string   `json:"toStation"`
	DepartureTime string   `json:"departureTime"`
	ArrivalTime   string   `json:"arrivalTime"`
	Duration      string   `json:"duration"`
	Distance      string   `json:"distance"`
	Classes       []string `json:"classes"`
	Days          []string `json:"days"`
}

// RouteStation is one stop on a train's schedule.
type RouteStation struct {
	StationCode string `json:"stationCode"`
	StationName string `json:"stationName"`
	Arrival     string `json:"arrival"`
	Departure   string `json:"departure"`
	Distance    string `json:"distance"`
	Day         int    `json:"day"`
	HaltTime    string `json:"haltTime"`
}

// TrainSchedule is the full route for one train.
type TrainSchedule struct {
	TrainNumber string         `json:"trainNumber"`
	TrainName   string         `json:"trainName"`
	Route       []RouteStation `json:"route"`
}

// LiveStatus is a train's current running position.
type LiveStatus struct {
	TrainNumber        string `json:"trainNumber"`
	TrainName          string `json:"trainName"`
	CurrentStation     string `json:"currentStation"`
	CurrentStationName string `json:"currentStationName"`
	LastUpdated        string `json:"lastUpdated"`
	ExpectedArrival    string `json:"expectedArrival"`
	Delay              string `json:"delay"`
	Status             string `json:"status"`
}

// Station is a station-autocomplete hit.
type Station struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	State string `json:"state"`
}

// TrainService answers train search, schedule, live status and station
// lookups through the shared provider client, with mock data when no
// provider key is configured.
type TrainService struct {
	Client    *IRCTCClient
	RequestID string
}

func (s TrainService) configured() bool {
	return s.Client != nil && s.Client.Configured()
}

func (s TrainService) providerDown(action string, err error) error {
	utils.LogEvent(s.RequestID, "trains", action, err.Error())
	return domain.NewAPIError("TRAIN_LOOKUP_FAILED", "Unable to fetch train data. Please try again.", http.StatusInternalServerError)
}

// SearchTrains lists trains running between two station codes.
func (s TrainService) SearchTrains(from, to, date string) ([]TrainSummary, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == "" || to == "" {
		return nil, domain.NewAPIError(domain.CodeInvalidInput, "From and to station codes are required.", http.StatusBadRequest)
	}

	if !s.configured() {
		return mockTrains(from, to), nil
	}

	var resp struct {
		Data []struct {
			TrainNumber string `json:"train_number"`
			TrainName   string `json:"train_name"`
			FromStation struct {
				Code string `json:"code"`
			} `json:"train_src"`
			ToStation struct {
				Code string `json:"code"`
			} `json:"train_dstn"`
			DepartureTime string   `json:"from_std"`
			ArrivalTime   string   `json:"to_sta"`
			Duration      string   `json:"duration"`
			Distance      string   `json:"distance"`
			Classes       []string `json:"class_type"`
			Days          []string `json:"run_days"`
		} `json:"data"`
	}
	params := map[string]string{"fromStationCode": from, "toStationCode": to}
	if strings.TrimSpace(date) != "" {
		params["dateOfJourney"] = strings.TrimSpace(date)
	}
	if err := s.Client.GetJSON("/api/v3/trainBetweenStations", params, &resp); err != nil {
		return nil, s.providerDown("search_failed", err)
	}

	out := make([]TrainSummary, 0, len(resp.Data))
	for _, t := range resp.Data {
		out = append(out, TrainSummary{
			TrainNumber:   t.TrainNumber,
			TrainName:     t.TrainName,
			FromStation:   firstNonEmpty(t.FromStation.Code, from),
			ToStation:     firstNonEmpty(t.ToStation.Code, to),
			DepartureTime: t.DepartureTime,
			ArrivalTime:   t.ArrivalTime,
			Duration:      t.Duration,
			Distance:      t.Distance,
			Classes:       t.Classes,
			Days:          t.Days,
		})
	}
	return out, nil
}

// GetSchedule returns the stop-by-stop route of a train.
func (s TrainService) GetSchedule(trainNumber string) (TrainSchedule, error) {
	trainNumber = strings.TrimSpace(trainNumber)
	if trainNumber == "" {
		return TrainSchedule{}, domain.NewAPIError(domain.CodeInvalidInput, "Train number is required.", http.StatusBadRequest)
	}

	if !s.configured() {
		return mockSchedule(trainNumber), nil
	}

	var resp struct {
		Data struct {
			TrainNumber string `json:"train_number"`
			TrainName   string `json:"train_name"`
			Route       []struct {
				StationCode string `json:"station_code"`
				StationName string `json:"station_name"`
				Arrival     string `json:"arrival_time"`
				Departure   string `json:"departure_time"`
				Distance    string `json:"distance"`
				Day         int    `json:"day"`
				HaltTime    string `json:"halt_time"`
			} `json:"route"`
		} `json:"data"`
	}
	if err := s.Client.GetJSON("/api/v1/getTrainSchedule", map[string]string{"trainNo": trainNumber}, &resp); err != nil {
		return TrainSchedule{}, s.providerDown("schedule_failed", err)
	}

	schedule := TrainSchedule{
		TrainNumber: firstNonEmpty(resp.Data.TrainNumber, trainNumber),
		TrainName:   resp.Data.TrainName,
		Route:       make([]RouteStation, 0, len(resp.Data.Route)),
	}
	for _, st := range resp.Data.Route {
		schedule.Route = append(schedule.Route, RouteStation{
			StationCode: st.StationCode,
			StationName: st.StationName,
			Arrival:     st.Arrival,
			Departure:   st.Departure,
			Distance:    st.Distance,
			Day:         st.Day,
			HaltTime:    st.HaltTime,
		})
	}
	return schedule, nil
}

// GetLiveStatus reports where a train currently is.
func (s TrainService) GetLiveStatus(trainNumber, startDay string) (LiveStatus, error) {
	trainNumber = strings.TrimSpace(trainNumber)
	if trainNumber == "" {
		return LiveStatus{}, domain.NewAPIError(domain.CodeInvalidInput, "Train number is required.", http.StatusBadRequest)
	}

	if !s.configured() {
		return mockLiveStatus(trainNumber), nil
	}

	var resp struct {
		Data struct {
			TrainNumber        string `json:"train_number"`
			TrainName          string `json:"train_name"`
			CurrentStation     string `json:"current_station_code"`
			CurrentStationName string `json:"current_station_name"`
			LastUpdated        string `json:"status_as_of"`
			ExpectedArrival    string `json:"eta"`
			Delay              string `json:"delay"`
			Status             string `json:"train_status_message"`
		} `json:"data"`
	}
	params := map[string]string{"trainNo": trainNumber}
	if strings.TrimSpace(startDay) != "" {
		params["startDay"] = strings.TrimSpace(startDay)
	}
	if err := s.Client.GetJSON("/api/v1/liveTrainStatus", params, &resp); err != nil {
		return LiveStatus{}, s.providerDown("live_status_failed", err)
	}

	d := resp.Data
	return LiveStatus{
		TrainNumber:        firstNonEmpty(d.TrainNumber, trainNumber),
		TrainName:          d.TrainName,
		CurrentStation:     d.CurrentStation,
		CurrentStationName: d.CurrentStationName,
		LastUpdated:        d.LastUpdated,
		ExpectedArrival:    d.ExpectedArrival,
		Delay:              d.Delay,
		Status:             d.Status,
	}, nil
}

// SearchStations finds stations by code or name prefix.
func (s TrainService) SearchStations(query string) ([]Station, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, domain.NewAPIError(domain.CodeInvalidInput, "Query must be at least 2 characters.", http.StatusBadRequest)
	}

	if !s.configured() {
		return mockStations(query), nil
	}

	var resp struct {
		Data []struct {
			Code  string `json:"code"`
			Name  string `json:"name"`
			State string `json:"state_name"`
		} `json:"data"`
	}
	if err := s.Client.GetJSON("/api/v1/searchStation", map[string]string{"query": query}, &resp); err != nil {
		return nil, s.providerDown("station_search_failed", err)
	}

	out := make([]Station, 0, len(resp.Data))
	for _, st := range resp.Data {
		out = append(out, Station{Code: st.Code, Name: st.Name, State: st.State})
	}
	return out, nil
}

var allClassDays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func mockTrains(from, to string) []TrainSummary {
	return []TrainSummary{
		{
			TrainNumber:   "12951",
			TrainName:     "Mumbai Rajdhani",
			FromStation:   from,
			ToStation:     to,
			DepartureTime: "17:00",
			ArrivalTime:   "08:35",
			Duration:      "15h 35m",
			Distance:      "1384 km",
			Classes:       []string{"1A", "2A", "3A"},
			Days:          allClassDays,
		},
		{
			TrainNumber:   "12953",
			TrainName:     "August Kranti Rajdhani",
			FromStation:   from,
			ToStation:     to,
			DepartureTime: "17:40",
			ArrivalTime:   "10:55",
			Duration:      "17h 15m",
			Distance:      "1377 km",
			Classes:       []string{"1A", "2A", "3A"},
			Days:          allClassDays,
		},
		{
			TrainNumber:   "12909",
			TrainName:     "Mumbai Garib Rath",
			FromStation:   from,
			ToStation:     to,
			DepartureTime: "17:55",
			ArrivalTime:   "11:50",
			Duration:      "17h 55m",
			Distance:      "1367 km",
			Classes:       []string{"3A"},
			Days:          []string{"Mon", "Wed", "Sat"},
		},
	}
}

func mockSchedule(trainNumber string) TrainSchedule {
	return TrainSchedule{
		TrainNumber: trainNumber,
		TrainName:   "Mumbai Rajdhani",
		Route: []RouteStation{
			{StationCode: "BCT", StationName: "Mumbai Central", Arrival: "--", Departure: "17:00", Distance: "0", Day: 1, HaltTime: "--"},
			{StationCode: "BRC", StationName: "Vadodara Jn", Arrival: "21:31", Departure: "21:41", Distance: "392", Day: 1, HaltTime: "10m"},
			{StationCode: "RTM", StationName: "Ratlam Jn", Arrival: "00:45", Departure: "00:50", Distance: "653", Day: 2, HaltTime: "5m"},
			{StationCode: "KOTA", StationName: "Kota Jn", Arrival: "03:40", Departure: "03:45", Distance: "918", Day: 2, HaltTime: "5m"},
			{StationCode: "NDLS", StationName: "New Delhi", Arrival: "08:35", Departure: "--", Distance: "1384", Day: 2, HaltTime: "--"},
		},
	}
}

func mockLiveStatus(trainNumber string) LiveStatus {
	return LiveStatus{
		TrainNumber:        trainNumber,
		TrainName:          "Mumbai Rajdhani",
		CurrentStation:     "RTM",
		CurrentStationName: "Ratlam Jn",
		LastUpdated:        utils.NowUTC().Format("2006-01-02 15:04"),
		ExpectedArrival:    "08:50",
		Delay:              "15 min",
		Status:             "Running Late by 15 minutes",
	}
}

func mockStations(query string) []Station {
	all := []Station{
		{Code: "BCT", Name: "Mumbai Central", State: "Maharashtra"},
		{Code: "NDLS", Name: "New Delhi", State: "Delhi"},
		{Code: "HWH", Name: "Howrah Jn", State: "West Bengal"},
		{Code: "MAS", Name: "Chennai Central", State: "Tamil Nadu"},
		{Code: "SBC", Name: "Bengaluru City Jn", State: "Karnataka"},
	}
	q := strings.ToUpper(query)
	out := []Station{}
	for _, st := range all {
		if strings.Contains(st.Code, q) || strings.Contains(strings.ToUpper(st.Name), q) {
			out = append(out, st)
		}
	}
	if len(out) == 0 {
		out = all
	}
	return out
}
