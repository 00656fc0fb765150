package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/peterbourgon/ff"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/route-weather/api"
	"github.com/a-bouts/route-weather/land"
	"github.com/a-bouts/route-weather/wind"
	"github.com/a-bouts/route-weather/xmpp"
)

func main() {

	fs := flag.NewFlagSet("route-weather", flag.ExitOnError)
	var (
		listen       = fs.String("listen", ":8888", "address to listen on")
		gribDir      = fs.String("grib-dir", "grib-data", "directory of GRIB2 wind forecasts, empty to disable")
		landFile     = fs.String("land-file", "", "land mask file, empty to disable")
		refresh      = fs.Uint64("refresh", 15, "seconds between two scans of the forecast directory")
		speed        = fs.Float64("speed", 80, "default travel speed in km/h")
		cpuprofile   = fs.Bool("cpuprofile", false, "profile route requests")
		debug        = fs.Bool("debug", false, "debug logs")
		xmppHost     = fs.String("xmpp-host", "", "")
		xmppJid      = fs.String("xmpp-jid", "", "")
		xmppPassword = fs.String("xmpp-password", "", "")
		xmppTo       = fs.String("xmpp-to", "", "")
	)
	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarNoPrefix()); err != nil {
		log.WithError(err).Fatal("Error parsing configuration")
	}

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	x := xmpp.Xmpp{Config: xmpp.Config{Host: *xmppHost, Jid: *xmppJid, Password: *xmppPassword, To: *xmppTo}}

	var mask api.Mask
	if *landFile != "" {
		log.Info("Load lands")
		l, err := land.InitLand(*landFile)
		if err != nil {
			log.WithError(err).Fatal("Error loading lands")
		}
		mask = l
	}

	var forecasts api.Forecasts
	if *gribDir != "" {
		log.Info("Load winds")
		var notifier wind.Notifier
		if x.Enabled() {
			notifier = x
		}
		forecasts = wind.InitWinds(*gribDir, *refresh, notifier)
	}

	router := api.InitServer(*cpuprofile, *speed, mask, forecasts)

	h := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(router)
	h = handlers.CombinedLoggingHandler(log.StandardLogger().Writer(), h)

	log.Infof("Start server on %s", *listen)
	log.Fatal(http.ListenAndServe(*listen, h))
}
