package testutils

import (
	"time"

	"github.com/JackBruzan/espn-scrape-sub000/matcher"
	"github.com/JackBruzan/espn-scrape-sub000/ratelimit"
	"github.com/itbasis/go-clock"
)

type TestController struct {
	Clock    clock.Clock
	Limiter  *ratelimit.Limiter
	Matcher  *matcher.Matcher
	fakeESPN *FakeESPNServer
}

func (c *TestController) Close() {
	c.fakeESPN.Close()
}

func (c *TestController) ESPNURL() string {
	return c.fakeESPN.URL()
}

func NewTestController(db *TestDB) *TestController {
	clk := db.Clock
	return &TestController{
		Clock: clk,
		// Generous enough that tests never wait on the limiter.
		Limiter:  ratelimit.New(10000, time.Minute, 0, time.Second, clk),
		Matcher:  matcher.New(matcher.DefaultConfig(), clk),
		fakeESPN: NewFakeESPNServer(),
	}
}
