// Command fttp is a demo binary serving one directory over HTTP and a
// sibling (or the same) directory over FTP, both driven off a single
// socketmux.Mux event loop.
package main

import (
	"errors"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/llehouerou/go-aac/internal/ftpserver"
	"github.com/llehouerou/go-aac/internal/httpserver"
	"github.com/llehouerou/go-aac/internal/socketmux"
)

// Config holds the demo binary's flags. Defaults match the hard-coded
// values a minimal build would use when given no flags.
type Config struct {
	HTTPPort  int
	FTPPort   int
	HTTPRoot  string
	FTPRoot   string
	FTPUser   string
	FTPPass   string
	LogFile   string
	MaxSlots  int
	AcceptQPS float64
}

func parseFlags(args []string) *Config {
	fs := pflag.NewFlagSet("fttp", pflag.ContinueOnError)
	cfg := &Config{}
	fs.IntVar(&cfg.HTTPPort, "http-port", 8080, "HTTP listen port")
	fs.IntVar(&cfg.FTPPort, "ftp-port", 8021, "FTP listen port")
	fs.StringVar(&cfg.HTTPRoot, "http-root", ".", "directory served over HTTP")
	fs.StringVar(&cfg.FTPRoot, "ftp-root", ".", "directory served over FTP")
	fs.StringVar(&cfg.FTPUser, "ftp-user", "user", "FTP username")
	fs.StringVar(&cfg.FTPPass, "ftp-pass", "pass", "FTP password")
	fs.StringVar(&cfg.LogFile, "log-file", "fttp.log", "log file path (rotated)")
	fs.IntVar(&cfg.MaxSlots, "max-slots", 256, "socket slot table size")
	fs.Float64Var(&cfg.AcceptQPS, "accept-qps", 200, "max Accept attempts per second")
	_ = fs.Parse(args)
	return cfg
}

func newLogger(cfg *Config) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	rotator := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(rotator),
		zap.InfoLevel,
	)
	return zap.New(core)
}

func main() {
	cfg := parseFlags(os.Args[1:])
	logger := newLogger(cfg)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("fttp exited", zap.Error(err))
	}
}

func run(cfg *Config, logger *zap.Logger) error {
	mux, err := socketmux.Open(cfg.MaxSlots)
	if err != nil {
		return err
	}
	defer mux.Close()

	httpListener, err := mux.OpenServer(cfg.HTTPPort, false)
	if err != nil {
		return err
	}
	if err := mux.Register(httpListener, false); err != nil {
		return err
	}

	ftpListener, err := mux.OpenServer(cfg.FTPPort, false)
	if err != nil {
		return err
	}
	if err := mux.Register(ftpListener, false); err != nil {
		return err
	}

	metrics := httpserver.NewMetrics()
	d := newDriver(mux, cfg, logger, metrics, httpListener, ftpListener)

	logger.Info("fttp listening",
		zap.Int("http_port", cfg.HTTPPort),
		zap.Int("ftp_port", cfg.FTPPort))

	for {
		d.tick()
	}
}

// driver owns every open HTTP and FTP session and dispatches socketmux
// events to whichever one owns the ready slot.
type driver struct {
	mux     *socketmux.Mux
	cfg     *Config
	logger  *zap.Logger
	metrics *httpserver.Metrics

	httpListener int
	ftpListener  int

	limiter *rate.Limiter

	httpSessions map[int]*httpserver.Session
	ftpSessions  []*ftpserver.Session
}

func newDriver(mux *socketmux.Mux, cfg *Config, logger *zap.Logger, metrics *httpserver.Metrics, httpListener, ftpListener int) *driver {
	return &driver{
		mux:          mux,
		cfg:          cfg,
		logger:       logger,
		metrics:      metrics,
		httpListener: httpListener,
		ftpListener:  ftpListener,
		limiter:      rate.NewLimiter(rate.Limit(cfg.AcceptQPS), int(cfg.AcceptQPS)),
		httpSessions: map[int]*httpserver.Session{},
	}
}

// tick runs one sweep: a single socketmux.Next() call dispatched to the
// owning session, matching the single-threaded cooperative scheduling
// model (no goroutine is ever spawned for a session).
func (d *driver) tick() {
	slot, mode, err := d.mux.Next()
	if err != nil {
		if errors.Is(err, socketmux.ErrRepeat) {
			d.idleSweep()
			return
		}
		return
	}

	switch {
	case slot == d.httpListener:
		d.acceptHTTP()
	case slot == d.ftpListener:
		d.acceptFTP()
	default:
		d.dispatch(slot, mode)
	}
}

func (d *driver) idleSweep() {
	for slot, s := range d.httpSessions {
		if s.IdleTick() {
			d.mux.Close(slot)
			s.Close()
			delete(d.httpSessions, slot)
			d.metrics.SessionsClosed.Inc()
		}
	}
}

func (d *driver) acceptHTTP() {
	if !d.limiter.Allow() {
		return
	}
	slot, err := d.mux.Accept(d.httpListener)
	if err != nil {
		return
	}
	if err := d.mux.Register(slot, false); err != nil {
		d.mux.Close(slot)
		return
	}

	handler := d.makeHTTPHandler()
	d.httpSessions[slot] = httpserver.NewSession(d.mux, slot, handler)
	d.metrics.SessionsOpened.Inc()
}

func (d *driver) makeHTTPHandler() httpserver.Handler {
	return func(s *httpserver.Session, r *httpserver.Request) {
		if r.Path == "/metrics" {
			resp, err := httpserver.MetricsResponse(d.metrics)
			if err != nil {
				s.EnqueueFixed([]byte("HTTP/1.1 500 Internal Server Error\r\nContent-Length: 0\r\n\r\n"))
				return
			}
			s.EnqueueFixed(resp)
			return
		}
		httpserver.ServeFiles(s, d.cfg.HTTPRoot, r)
	}
}

func (d *driver) acceptFTP() {
	if !d.limiter.Allow() {
		return
	}
	slot, err := d.mux.Accept(d.ftpListener)
	if err != nil {
		return
	}
	if err := d.mux.Register(slot, false); err != nil {
		d.mux.Close(slot)
		return
	}

	idx := len(d.ftpSessions)
	sess := ftpserver.NewSession(d.mux, slot, idx, d.cfg.MaxSlots, d.cfg.FTPRoot, d.cfg.FTPUser, d.cfg.FTPPass)
	d.ftpSessions = append(d.ftpSessions, sess)
}

func (d *driver) dispatch(slot int, mode socketmux.Mode) {
	if s, ok := d.httpSessions[slot]; ok {
		d.dispatchHTTP(slot, mode, s)
		return
	}
	for _, fs := range d.ftpSessions {
		if fs.OwnsSlot(slot) {
			if err := fs.Dispatch(mode, slot); err != nil {
				fs.Close()
			}
			return
		}
	}
}

func (d *driver) dispatchHTTP(slot int, mode socketmux.Mode, s *httpserver.Session) {
	var err error
	switch mode {
	case socketmux.Read:
		err = s.HandleReadable()
	case socketmux.Write:
		err = s.HandleWritable()
	case socketmux.Disconnect:
		err = errors.New("disconnect")
	}
	if err != nil || s.Closed() {
		d.mux.Close(slot)
		s.Close()
		delete(d.httpSessions, slot)
		d.metrics.SessionsClosed.Inc()
	}
}
