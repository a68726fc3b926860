// Package dashboard serves a read-only web view of the assessment data.
// Data files are reloaded on every request so edits from the CLI show up
// without a restart.
package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/dshills/riskwatch/internal/config"
	"github.com/dshills/riskwatch/internal/report"
	"github.com/dshills/riskwatch/internal/schema"
	"github.com/dshills/riskwatch/internal/store"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Card is one topic's summary on the index page.
type Card struct {
	Key          string
	Title        string
	Question     string
	Horizon      string
	Probability  *int
	Descriptor   string
	Confidence   string
	LastUpdated  string
	NextReview   string
	RiskLevel    report.RiskLevel
	RiskClass    string
	Trend        string
	HistoryCount int
}

// Server wires the HTTP routes over a data store.
type Server struct {
	store  *store.Store
	cfg    config.Config
	now    func() time.Time
	logger *log.Logger
}

func New(st *store.Store, cfg config.Config) *Server {
	return &Server{store: st, cfg: cfg, now: time.Now, logger: log.New(io.Discard)}
}

// SetLogger replaces the request logger (discards by default).
func (s *Server) SetLogger(l *log.Logger) { s.logger = l }

// Router builds the gin engine with all routes registered.
func (s *Server) Router() (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog)

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"deref": func(p *int) int {
			if p == nil {
				return 0
			}
			return *p
		},
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/", s.index)
	r.GET("/topic/:key", s.topicDetail)
	r.GET("/api/assessments", s.apiAssessments)
	r.GET("/api/topic/:key", s.apiTopic)
	r.GET("/api/status", s.apiStatus)
	r.Static("/visualizations", s.cfg.OutputDir)

	return r, nil
}

func (s *Server) requestLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Debug("request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"took", time.Since(start).Round(time.Microsecond))
}

// Run serves until the listener fails.
func (s *Server) Run() error {
	r, err := s.Router()
	if err != nil {
		return err
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.DashboardHost, s.cfg.DashboardPort)
	return r.Run(addr)
}

func (s *Server) index(c *gin.Context) {
	d, err := s.store.Load()
	if err != nil {
		c.String(http.StatusInternalServerError, "load data: %v", err)
		return
	}

	cards := make([]Card, 0, len(d.Topics))
	for _, key := range d.SortedKeys() {
		cards = append(cards, buildCard(d, key))
	}
	// Highest probability first, unassessed last.
	sort.SliceStable(cards, func(i, j int) bool {
		a, b := cards[i].Probability, cards[j].Probability
		if (a == nil) != (b == nil) {
			return b == nil
		}
		if a == nil {
			return false
		}
		return *a > *b
	})

	now := s.now()
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Cards":       cards,
		"Status":      report.BuildStatus(d, now, s.cfg.DueSoonDays),
		"CurrentDate": now.Format("2006-01-02 15:04"),
	})
}

func (s *Server) topicDetail(c *gin.Context) {
	d, err := s.store.Load()
	if err != nil {
		c.String(http.StatusInternalServerError, "load data: %v", err)
		return
	}
	key := c.Param("key")
	topic, ok := d.Topics[key]
	if !ok {
		c.String(http.StatusNotFound, "Topic not found")
		return
	}

	c.HTML(http.StatusOK, "topic_detail.html", gin.H{
		"Key":         key,
		"Topic":       topic,
		"Card":        buildCard(d, key),
		"Assessment":  d.Assessments[key],
		"History":     d.History[key],
		"CurrentDate": s.now().Format("2006-01-02 15:04"),
	})
}

func (s *Server) apiAssessments(c *gin.Context) {
	d, err := s.store.Load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	type entry struct {
		Key         string                `json:"key"`
		Title       string                `json:"title"`
		Probability *int                  `json:"probability"`
		Descriptor  string                `json:"descriptor"`
		Confidence  schema.Confidence     `json:"confidence"`
		LastUpdated string                `json:"last_updated"`
		History     []schema.HistoryEntry `json:"history"`
	}
	out := make([]entry, 0, len(d.Topics))
	for _, key := range d.SortedKeys() {
		a := d.Assessments[key]
		out = append(out, entry{
			Key:         key,
			Title:       d.Topics[key].Title,
			Probability: a.CurrentProbability,
			Descriptor:  a.CurrentDescriptor,
			Confidence:  a.Confidence,
			LastUpdated: a.LastUpdated,
			History:     d.History[key],
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) apiTopic(c *gin.Context) {
	d, err := s.store.Load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	key := c.Param("key")
	topic, ok := d.Topics[key]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Topic not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"key":        key,
		"topic":      topic,
		"assessment": d.Assessments[key],
		"history":    d.History[key],
	})
}

func (s *Server) apiStatus(c *gin.Context) {
	d, err := s.store.Load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report.BuildStatus(d, s.now(), s.cfg.DueSoonDays))
}

func buildCard(d *store.Data, key string) Card {
	topic := d.Topics[key]
	a := d.Assessments[key]
	entries := d.History[key]

	card := Card{
		Key:          key,
		Title:        topic.Title,
		Question:     topic.Question,
		Horizon:      topic.Horizon,
		Probability:  a.CurrentProbability,
		Descriptor:   a.CurrentDescriptor,
		Confidence:   string(a.Confidence),
		LastUpdated:  a.LastUpdated,
		NextReview:   a.NextReview,
		HistoryCount: len(entries),
	}
	if card.Descriptor == "" {
		card.Descriptor = "Not Assessed"
	}
	if card.Confidence == "" {
		card.Confidence = "N/A"
	}
	if card.LastUpdated == "" {
		card.LastUpdated = "Never"
	}
	if card.NextReview == "" {
		card.NextReview = "Not scheduled"
	}

	card.RiskLevel, card.RiskClass = riskOf(a.CurrentProbability)

	if len(entries) > 0 {
		if change := entries[len(entries)-1].Change; change != nil {
			switch {
			case *change > 0:
				card.Trend = "up"
			case *change < 0:
				card.Trend = "down"
			default:
				card.Trend = "stable"
			}
		}
	}
	return card
}

func riskOf(prob *int) (report.RiskLevel, string) {
	switch {
	case prob == nil:
		return report.RiskNotAssessed, "risk-none"
	case *prob >= 70:
		return report.RiskCritical, "risk-critical"
	case *prob >= 30:
		return report.RiskElevated, "risk-elevated"
	default:
		return report.RiskLow, "risk-low"
	}
}
