// Package view drives one city lookup through the Welcome, Loading, Result
// and Error render states.
package view

import (
	"context"
	"errors"
	"sync/atomic"

	"skyfetch/models"
	"skyfetch/weather"
)

// State is one of the mutually exclusive render states
type State int

const (
	Welcome State = iota
	Loading
	Result
	Error
)

func (s State) String() string {
	switch s {
	case Welcome:
		return "welcome"
	case Loading:
		return "loading"
	case Result:
		return "result"
	case Error:
		return "error"
	}
	return "unknown"
}

// ErrLookupInProgress is returned for a submission made to a shared presenter
// while another lookup on it runs
var ErrLookupInProgress = errors.New("lookup already in progress")

// View is everything a renderer needs for one state
type View struct {
	State   State
	City    string
	Report  *models.Report
	Err     error
	Message string
}

// NewWelcome returns the initial view
func NewWelcome() View {
	return View{State: Welcome}
}

func newError(city string, err error) View {
	msg := weather.Message(err)
	if errors.Is(err, ErrLookupInProgress) {
		msg = "Please wait for the current search to finish."
	}
	return View{State: Error, City: city, Err: err, Message: msg}
}

// Presenter validates a submission, runs the lookup and reports each state
// change to an optional observer. A Presenter accepts one lookup at a time:
// surfaces that share one (the terminal session) get a refusal for a second
// submission, surfaces that must not block each other (one per HTTP request)
// each build their own.
type Presenter struct {
	fetcher  weather.Fetcher
	observer func(View)
	busy     atomic.Bool
}

// NewPresenter creates a presenter; observer may be nil
func NewPresenter(fetcher weather.Fetcher, observer func(View)) *Presenter {
	return &Presenter{fetcher: fetcher, observer: observer}
}

// Submit handles one submission of raw user input and returns the final view
func (p *Presenter) Submit(ctx context.Context, raw string) View {
	city, err := weather.Validate(raw)
	if err != nil {
		return p.show(newError(raw, err))
	}

	if !p.busy.CompareAndSwap(false, true) {
		return p.show(newError(city, ErrLookupInProgress))
	}
	defer p.busy.Store(false)

	p.show(View{State: Loading, City: city})

	report, err := p.fetcher.FetchWeather(ctx, city)
	if err != nil {
		return p.show(newError(city, err))
	}
	return p.show(View{State: Result, City: city, Report: report})
}

func (p *Presenter) show(v View) View {
	if p.observer != nil {
		p.observer(v)
	}
	return v
}
