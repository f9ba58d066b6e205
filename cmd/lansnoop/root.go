package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexanderbarton/lansnoop/internal/capture"
	"github.com/alexanderbarton/lansnoop/internal/core"
	"github.com/alexanderbarton/lansnoop/internal/event"
	"github.com/alexanderbarton/lansnoop/internal/logging"
	"github.com/alexanderbarton/lansnoop/internal/logging/logfields"
	"github.com/alexanderbarton/lansnoop/internal/lookup"
	"github.com/alexanderbarton/lansnoop/internal/metrics"
	"github.com/alexanderbarton/lansnoop/internal/model"
)

type flags struct {
	iface       string
	file        string
	ouiPath     string
	prefixPath  string
	asnPath     string
	verbose     bool
	metricsAddr string
	oneLAN      bool
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "lansnoop",
		Short: "Passively observe LAN traffic and emit a topology event stream",
		Long: "lansnoop dissects captured Ethernet frames, infers the evolving\n" +
			"network topology (Networks, Interfaces, IPEndpoints, Clouds), and\n" +
			"writes a length-framed stream of events describing it to stdout.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(f)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.iface, "interface", "i", "", "read packets from the named interface")
	fs.StringVarP(&f.file, "read", "r", "", "read packets from the named libpcap savefile")
	fs.StringVar(&f.ouiPath, "oui", "", "path to the IEEE OUI vendor CSV file")
	fs.StringVar(&f.prefixPath, "prefixes", "", "path to the IPv4 prefix-to-ASN file")
	fs.StringVar(&f.asnPath, "asns", "", "path to the ASN-to-organization-name file")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "print human-readable logs to stderr")
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on, e.g. :9090 (disabled if empty)")
	fs.BoolVar(&f.oneLAN, "one-lan", true, "attach every newly seen interface to the first existing network instead of opening a new network for it")

	return cmd
}

func run(f flags) error {
	log := logging.New(f.verbose)

	if (f.iface == "") == (f.file == "") {
		return fmt.Errorf("exactly one of -i/--interface or -r/--read must be given")
	}

	ouis, err := loadOptional(f.ouiPath, lookup.LoadOUITable)
	if err != nil {
		return err
	}
	prefixes, err := loadOptional(f.prefixPath, lookup.LoadPrefixTable)
	if err != nil {
		return err
	}
	asns, err := loadOptional(f.asnPath, lookup.LoadASNTable)
	if err != nil {
		return err
	}

	var src capture.Source
	if f.iface != "" {
		src, err = capture.OpenLive(f.iface)
	} else {
		src, err = capture.OpenOffline(f.file)
	}
	if err != nil {
		return err
	}
	defer src.Close()

	emitter := event.NewEmitter(os.Stdout)
	m := model.New(model.Options{
		AssumeOneLAN: f.oneLAN,
		OUIs:         ouis,
		Prefixes:     prefixes,
		ASNs:         asns,
		Sink:         emitter,
		Log:          log,
		SoftErrors:   metrics.ARPCounter{},
	})
	engine := core.New(core.Options{Model: m, Counters: metrics.DispositionObserver{}, Log: log})

	if f.metricsAddr != "" {
		go func() {
			if err := metrics.Serve(f.metricsAddr); err != nil {
				log.Error("metrics server stopped", logfields.Error, err.Error())
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		sig := <-sigCh
		log.Info("shutting down", "signal", sig.String())
		src.Close()
	}()

	return runGuarded(log, src, engine, emitter)
}

// runGuarded runs the capture loop with a panic/recover boundary for
// model.InvariantError: the model package panics with it when one of its
// own invariants breaks, which is a programmer bug rather than a
// malformed-packet disposition. It's logged with full context and treated
// as a fatal startup-class error, after giving the event emitter a chance
// to flush what it already wrote.
func runGuarded(log *slog.Logger, src capture.Source, engine *core.Engine, emitter *event.Emitter) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if ierr, ok := r.(*model.InvariantError); ok {
				log.Error("model invariant violated, exiting", logfields.Error, ierr.Error())
				err = ierr
				return
			}
			panic(r)
		}
	}()

	if runErr := src.Run(engine); runErr != nil {
		return runErr
	}
	return emitter.Err()
}

func loadOptional[T any](path string, load func(string) (*T, error)) (*T, error) {
	if path == "" {
		return nil, nil
	}
	return load(path)
}
