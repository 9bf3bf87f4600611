package handlers

import (
	"trainbuddy/internal/http/middleware"
	"trainbuddy/internal/services"

	"github.com/gin-gonic/gin"
)

// TrainsHandler serves train search, schedule, live status and station
// autocomplete.
type TrainsHandler struct {
	Trains func(requestID string) services.TrainService
}

func (h TrainsHandler) svc(c *gin.Context) services.TrainService {
	return h.Trains(middleware.GetRequestID(c))
}

type trainSearchRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Date string `json:"date"`
}

func (h TrainsHandler) Search(c *gin.Context) {
	var req trainSearchRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	trains, err := h.svc(c).SearchTrains(req.From, req.To, req.Date)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	OK(c, gin.H{"trains": trains, "count": len(trains)})
}

func (h TrainsHandler) Schedule(c *gin.Context) {
	schedule, err := h.svc(c).GetSchedule(c.Param("trainNumber"))
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	OK(c, gin.H{"schedule": schedule})
}

type liveStatusRequest struct {
	TrainNumber string `json:"trainNumber"`
	StartDay    string `json:"startDay"`
}

func (h TrainsHandler) LiveStatus(c *gin.Context) {
	var req liveStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	status, err := h.svc(c).GetLiveStatus(req.TrainNumber, req.StartDay)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	OK(c, gin.H{"liveStatus": status})
}

func (h TrainsHandler) Stations(c *gin.Context) {
	stations, err := h.svc(c).SearchStations(c.Query("query"))
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	OK(c, gin.H{"stations": stations, "count": len(stations)})
}
