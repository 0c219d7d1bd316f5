package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"

	"skyfetch/datasource"
	"skyfetch/render"
	"skyfetch/view"
	"skyfetch/weather"
)

// cli runs searches from the command line or an interactive prompt
type cli struct {
	presenter *view.Presenter
	out       io.Writer
	html      bool
}

func newCLI(fetcher weather.Fetcher, out io.Writer, html bool) *cli {
	c := &cli{out: out, html: html}
	var observer func(view.View)
	if !html {
		observer = func(v view.View) {
			if err := render.Text(out, v); err != nil {
				log.Printf("Error writing %s view: %v", v.State, err)
			}
		}
	}
	c.presenter = view.NewPresenter(fetcher, observer)
	return c
}

// search submits one city; text output is written by the observer as states change
func (c *cli) search(ctx context.Context, raw string) view.View {
	return c.submit(ctx, raw, render.Page)
}

// submit runs one lookup and, in HTML mode, writes the final view with emit
func (c *cli) submit(ctx context.Context, raw string, emit func(io.Writer, view.View) error) view.View {
	v := c.presenter.Submit(ctx, raw)
	if c.html {
		if err := emit(c.out, v); err != nil {
			log.Printf("Error rendering %s view: %v", v.State, err)
		}
	}
	return v
}

// interactive treats every line read from in as a submission. In HTML mode
// the session opens with the full welcome page and each answer is the
// display fragment that replaces its #weather-display content.
func (c *cli) interactive(ctx context.Context, in io.Reader) error {
	var err error
	if c.html {
		err = render.Page(c.out, view.NewWelcome())
	} else {
		err = render.Text(c.out, view.NewWelcome())
	}
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.submit(ctx, scanner.Text(), render.Fragment)
		fmt.Fprintln(c.out)
	}
}

func main() {
	// .env is optional for the terminal client
	_ = godotenv.Load()

	configFile := flag.String("config", "config.json", "Path to configuration file")
	htmlOut := flag.Bool("html", false, "Print rendered HTML instead of text")
	tz := flag.String("tz", "", "Time zone for forecast day labels (default: local)")
	debug := flag.Bool("debug", false, "Log upstream requests")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: skyfetch [flags] [city]")
		fmt.Fprintln(os.Stderr, "Without a city, reads one city per line from standard input.")
		flag.PrintDefaults()
	}
	flag.Parse()

	config, err := datasource.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *tz != "" {
		config.Timezone = *tz
	}
	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	loc, _ := config.Location()

	logger := log.New(io.Discard, "", 0)
	if *debug {
		logger = log.Default()
	}
	client := weather.NewClient(datasource.NewSource(config.OpenWeatherMap),
		weather.WithLocation(loc), weather.WithLogger(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := newCLI(client, os.Stdout, *htmlOut)

	if flag.NArg() > 0 {
		v := c.search(ctx, strings.Join(flag.Args(), " "))
		if v.State == view.Error {
			os.Exit(1)
		}
		return
	}

	if err := c.interactive(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Error reading input: %v", err)
	}
}
