// mock-upstream is a standalone development stand-in for the external lesson
// service. It serves a deterministic lesson collection spread across the
// month-picker window and answers claims with a deliberately partial lesson
// record so the dashboard's merge defaults get exercised.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type lesson struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Type     string    `json:"type"`
	Subject  string    `json:"subject"`
	Students []string  `json:"students"`
	Tutor    *string   `json:"tutor"`
	Status   string    `json:"status"`
}

type server struct {
	mu      sync.Mutex
	lessons []lesson
}

var subjects = []string{"Mathematics", "Physics", "English", "Chemistry", "Biology"}

var rosters = [][]string{
	{"Ada L."},
	{"Grace H.", "Alan T."},
	{},
	{"Edsger D."},
	{"Barbara L.", "Donald K."},
}

func seed(now time.Time) []lesson {
	var lessons []lesson

	add := func(date time.Time, typ, status string, roster []string, tutor *string) {
		lessons = append(lessons, lesson{
			ID:       uuid.NewString(),
			Date:     date,
			Type:     typ,
			Subject:  subjects[len(lessons)%len(subjects)],
			Students: roster,
			Tutor:    tutor,
			Status:   status,
		})
	}

	tutor := "Sam Rivera"
	for offset := -5; offset <= 6; offset++ {
		base := time.Date(now.Year(), now.Month(), 1, 10, 0, 0, 0, now.Location()).AddDate(0, offset, 0)
		roster := rosters[(offset+5)%len(rosters)]
		switch {
		case offset < 0:
			add(base.AddDate(0, 0, 3), "Historic", "Completed", roster, &tutor)
			add(base.AddDate(0, 0, 17), "Historic", "Completed", roster, &tutor)
		case offset == 0:
			// One of each in the current month, including a claimable lesson today.
			add(time.Date(now.Year(), now.Month(), now.Day(), 15, 0, 0, 0, now.Location()), "Available", "Available", roster, nil)
			add(base.AddDate(0, 0, 2), "Historic", "Completed", roster, &tutor)
			add(base.AddDate(0, 0, 25), "Upcoming", "Confirmed", roster, &tutor)
		default:
			add(base.AddDate(0, 0, 8), "Available", "Available", roster, nil)
			add(base.AddDate(0, 0, 20), "Upcoming", "Confirmed", roster, &tutor)
		}
	}
	return lessons
}

func (s *server) list(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.lessons)
}

func (s *server) claim(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lessons {
		if s.lessons[i].ID != id {
			continue
		}
		if s.lessons[i].Type != "Available" {
			c.JSON(http.StatusConflict, gin.H{"message": "lesson is not available"})
			return
		}
		s.lessons[i].Type = "Upcoming"
		s.lessons[i].Status = "Confirmed"
		// Partial response on purpose: tutor and students are omitted so the
		// dashboard falls back to the caller's name and the pre-claim roster.
		c.JSON(http.StatusOK, gin.H{"type": "Upcoming", "status": "Confirmed"})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "lesson not found"})
}

func main() {
	port := flag.Int("port", 9090, "listen port")
	flag.Parse()

	gin.SetMode(gin.ReleaseMode)
	s := &server{lessons: seed(time.Now())}

	r := gin.Default()
	r.GET("/lessons", s.list)
	r.POST("/lessons/:id/claim", s.claim)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("mock lesson service listening on %s with %d lessons", addr, len(s.lessons))
	if err := r.Run(addr); err != nil {
		log.Fatalf("mock lesson service failed: %v", err)
	}
}
