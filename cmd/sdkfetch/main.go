package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

// defaultBaseURL is where Discord publishes Game SDK archives.
const defaultBaseURL = "https://dl-game-sdk.discordapp.net"

var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// CLI is the command line of sdkfetch.
type CLI struct {
	Version  string        `arg:"" help:"SDK version to download, for example 2.5.6."`
	Out      string        `short:"o" default:"sdk" help:"Directory the SDK is extracted to. Its previous contents are removed."`
	BaseURL  string        `name:"base-url" default:"${base_url}" help:"Download server."`
	Blake2b  string        `name:"blake2b" help:"Expected hex BLAKE2b-256 digest of the archive."`
	Timeout  time.Duration `default:"2m" help:"Overall download timeout."`
	LogLevel string        `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)."`
}

// Validate checks the parsed command line.
func (c *CLI) Validate() error {
	if !versionPattern.MatchString(c.Version) {
		return fmt.Errorf("invalid version %q: want MAJOR.MINOR.PATCH", c.Version)
	}
	if strings.TrimSpace(c.Out) == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("invalid base URL %q", c.BaseURL)
	}
	if c.Blake2b != "" {
		digest, err := hex.DecodeString(c.Blake2b)
		if err != nil || len(digest) != blake2b.Size256 {
			return fmt.Errorf("invalid BLAKE2b-256 digest %q", c.Blake2b)
		}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// Run downloads and extracts the SDK.
func (c *CLI) Run(ctx context.Context) error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	fetcher := &Fetcher{
		Client:  &http.Client{},
		BaseURL: c.BaseURL,
		OutDir:  c.Out,
		Digest:  strings.ToLower(c.Blake2b),
	}
	files, err := fetcher.Fetch(ctx, c.Version)
	if err != nil {
		return err
	}
	for _, f := range files {
		logrus.WithFields(logrus.Fields{
			"function": "Run",
			"path":     f,
		}).Debug("Extracted file")
	}
	return nil
}

// newParser builds the kong parser, writing help and errors to the given
// streams.
func newParser(cli *CLI, exit func(int), stdout, stderr io.Writer) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("sdkfetch"),
		kong.Description("Download the Discord Game SDK and unpack its native libraries."),
		kong.Exit(exit),
		kong.Writers(stdout, stderr),
		kong.Vars{"base_url": defaultBaseURL},
	)
}

// setupSignalHandling cancels ctx on interrupt.
func setupSignalHandling(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	go func() {
		sig := <-sigChan
		logrus.WithField("signal", sig.String()).Warn("Interrupted, aborting download")
		cancel()
	}()
}

func main() {
	var cli CLI
	parser, err := newParser(&cli, os.Exit, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sdkfetch: %v\n", err)
		os.Exit(1)
	}
	_, err = parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	parser.FatalIfErrorf(cli.Validate())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandling(cancel)

	if err := cli.Run(ctx); err != nil {
		logrus.WithError(err).Error("Fetching SDK failed")
		cancel()
		os.Exit(1)
	}
}
