// Command folio serves a blog and portfolio from a site folder, or writes it
// out as static files.
//
//	folio [flags] [serve]
//	folio [flags] build
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/artmann/folio/site"
	"github.com/artmann/folio/web"
	"github.com/facebookgo/flagenv"
	"github.com/golang/groupcache"
)

// main is where it all begins. 😀
func main() {
	// Setup flags
	var (
		fPort              = flag.Int("port", 8080, "Port to listen on.")
		fAddr              = flag.String("addr", "", "Address to listen on; overrides port.")
		fReadTimeout       = flag.Duration("readtimeout", 10*time.Second, "HTTP server read timeout.")
		fReadHeaderTimeout = flag.Duration("readheadertimeout", 5*time.Second, "HTTP server read header timeout.")
		fWriteTimeout      = flag.Duration("writetimeout", 30*time.Second, "HTTP server write timeout.")
		fRoot              = flag.String("root", ".", "Root of web site.")
		fOut               = flag.String("out", "dist", "Output folder for build.")
		fCacheSize         = flag.Int64("cachesize", 10*1024*1024, "Static file cache size in bytes.")
		fCacheDuration     = flag.Duration("cacheduration", time.Minute, "Static file cache duration.")
	)
	flag.Parse()
	flagenv.Parse()

	s, err := site.New(os.DirFS(*fRoot))
	if err != nil {
		log.Printf("Cannot load site %q: %s", *fRoot, err)
		os.Exit(1)
	}
	log.Printf("Loaded site %q from %q", s.Config().Title, *fRoot)

	cmd := flag.Arg(0)
	switch cmd {
	case "build":
		if err := build(s, *fOut); err != nil {
			log.Print(err)
			os.Exit(2)
		}
	case "", "serve":
		addr := *fAddr
		if addr == "" {
			addr = fmt.Sprintf(":%d", *fPort)
		}
		srv := &http.Server{
			Addr:              addr,
			ReadTimeout:       *fReadTimeout,
			WriteTimeout:      *fWriteTimeout,
			ReadHeaderTimeout: *fReadHeaderTimeout,
		}
		cache := &web.CacheConfig{GroupName: "static", SizeInBytes: *fCacheSize, Duration: *fCacheDuration}
		serve(srv, s, cache)
	default:
		log.Printf("Unknown command %q", cmd)
		flag.Usage()
		os.Exit(2)
	}
}

// build writes the static site to out.
func build(s *site.Site, out string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	n, err := s.Build(ctx, out)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	log.Printf("Wrote %d pages to %q in %s", n, out, time.Since(start).Round(time.Millisecond))
	return nil
}

// serve runs srv until it receives SIGINT or SIGTERM. SIGHUP reloads the
// site configuration and templates.
func serve(srv *http.Server, s *site.Site, cache *web.CacheConfig) {
	// Setup groupcache (with no peers)
	groupcache.RegisterPeerPicker(func() groupcache.PeerPicker { return groupcache.NoPeers{} })

	// Headers and expiration come from the configuration at startup
	cfg := s.Config()
	srv.Handler = web.HeaderHandler(
		web.ExpiresHandler(
			gziphandler.GzipHandler(s.Handler(cache)),
			time.Duration(cfg.Expires),
			time.Duration(cfg.StaticExpires),
		),
		cfg.Headers)
	log.Print("Created handlers")

	// Reload on SIGHUP
	go func() {
		sighup := make(chan os.Signal, 1)
		signal.Notify(sighup, syscall.SIGHUP)
		for range sighup {
			if err := s.Reload(); err != nil {
				log.Printf("Reload: %v", err)
				continue
			}
			log.Print("Reloaded site")
		}
	}()

	// Create signal handler for graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)

		// interrupt signal sent from terminal
		signal.Notify(sigint, os.Interrupt)
		// sigterm signal sent from kubernetes
		signal.Notify(sigint, syscall.SIGTERM)

		<-sigint

		// We received an interrupt signal, shut down.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			// Error from closing listeners, or context timeout:
			log.Printf("HTTP server Shutdown: %v", err)
		}
	}()

	// Listen for requests
	log.Printf("Listening for requests on %s", srv.Addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Printf("HTTP server: %v", err)
	} else {
		log.Print("Goodbye.")
	}
}
