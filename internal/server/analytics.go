package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) AnalyticsRevenue(c *gin.Context) {
	resp, err := s.analyticsSvc.RevenueStats(c.Request.Context(), strings.TrimSpace(c.Query("period")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AnalyticsCustomerGrowth(c *gin.Context) {
	resp, err := s.analyticsSvc.CustomerGrowth(c.Request.Context(), strings.TrimSpace(c.Query("period")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AnalyticsPaymentStats(c *gin.Context) {
	resp, err := s.analyticsSvc.PaymentStats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AnalyticsSummary(c *gin.Context) {
	resp, err := s.analyticsSvc.DashboardSummary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AnalyticsTopCustomers(c *gin.Context) {
	resp, err := s.analyticsSvc.TopCustomers(c.Request.Context(), parseLimit(c.Query("limit")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AnalyticsRecentActivities(c *gin.Context) {
	resp, err := s.analyticsSvc.RecentActivities(c.Request.Context(), parseLimit(c.Query("limit")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AnalyticsStatusDistribution(c *gin.Context) {
	resp, err := s.analyticsSvc.StatusDistribution(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AnalyticsTrends(c *gin.Context) {
	resp, err := s.analyticsSvc.TrendComparison(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// parseLimit returns 0 for missing or malformed limits; services apply their
// own defaults.
func parseLimit(value string) int {
	limit, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
