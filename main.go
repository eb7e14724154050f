package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"PixelBoard/internal/config"
	"PixelBoard/internal/editor"
	"PixelBoard/internal/export"
	pbnet "PixelBoard/internal/net"
	"PixelBoard/internal/record"
	"PixelBoard/internal/state"
	"PixelBoard/internal/ui"
)

type options struct {
	config   string
	port     uint
	record   string
	replay   string
	export   string
	scale    int
	headless bool
	qr       string
	send     string
	to       string
	browse   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.config, "config", "", "configuration file (default ~/.config/pixelboard.yaml)")
	flag.UintVar(&opts.port, "port", 0, "TCP port for remote controllers")
	flag.StringVar(&opts.record, "record", "", "session record file")
	flag.StringVar(&opts.replay, "replay", "", "replay a session record instead of hosting")
	flag.StringVar(&opts.export, "export", "", "export the replayed canvas to a .bmp or .pdf file")
	flag.IntVar(&opts.scale, "scale", 8, "export pixel size")
	flag.BoolVar(&opts.headless, "headless", false, "host without opening a window")
	flag.StringVar(&opts.qr, "qr", "", "write the share link QR code to this PNG file")
	flag.StringVar(&opts.send, "send", "", "intent to send to a host, as JSON")
	flag.StringVar(&opts.to, "to", "", "host share link or address for -send")
	flag.BoolVar(&opts.browse, "browse", false, "list hosts on the local network")
	flag.Parse()

	// A share link as the only argument starts a controller.
	if link := flag.Arg(0); strings.HasPrefix(link, pbnet.LinkScheme) && opts.to == "" {
		opts.to = link
	}

	var err error
	switch {
	case opts.browse:
		err = runBrowse()
	case opts.replay != "":
		err = runReplay(opts)
	case opts.to != "":
		err = runClient(opts)
	default:
		err = runHost(opts)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runHost(opts options) error {
	log.Println("Starting as HOST")
	cfg, err := config.Load(opts.config)
	if err != nil {
		return err
	}
	if opts.port != 0 {
		cfg.Port = uint16(opts.port)
	}
	if opts.record != "" {
		cfg.Record = opts.record
	}

	engine := state.NewEngine(state.WithSnapshotInterval(cfg.SnapshotInterval))
	if err := restore(cfg.Record, engine); err != nil {
		return err
	}

	writer, err := record.Create(cfg.Record)
	if err != nil {
		return err
	}
	if _, err := writer.Open(cfg.Port); err != nil {
		if cerr := writer.Close(engine.History().Pointer()); cerr != nil {
			log.Printf("[HOST] Failed to close record %s: %v", cfg.Record, cerr)
		}
		return err
	}

	var (
		board *ui.Board
		pm    *pbnet.PeerManager
	)
	runner := editor.New(engine,
		editor.WithSink(writer),
		editor.WithViewport(cfg.Viewport.Width, cfg.Viewport.Height),
		editor.OnOutcome(func(out state.Outcome) { pm.Publish(out) }),
		editor.OnScene(func(sc state.Scene) {
			if board != nil {
				board.ShowScene(sc)
			}
		}),
	)
	pm = pbnet.NewPeerManager(runner)
	if !opts.headless {
		board = ui.NewBoard(runner)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return runner.Run(gctx, cfg.Init) })
	g.Go(func() error { return pm.ListenAndServe(gctx, int(cfg.Port)) })
	if cfg.WebSocket != "" {
		g.Go(func() error { return pm.ListenAndServeWebSocket(gctx, cfg.WebSocket) })
	}

	shareLink := pbnet.ShareLink(int(cfg.Port))
	if cfg.Advertise {
		g.Go(func() error {
			if err := pbnet.AdvertiseUntil(gctx, int(cfg.Port), shareLink); err != nil {
				log.Printf("[NET] mDNS advertising disabled: %v", err)
			}
			return nil
		})
	}

	log.Printf("[HOST] Share link: %s", shareLink)
	if text, err := export.QRText(shareLink); err == nil {
		fmt.Println(text)
	}
	if opts.qr != "" {
		if err := export.SaveQR(opts.qr, shareLink, 256); err != nil {
			log.Printf("[HOST] Could not write QR code: %v", err)
		}
	}

	if board != nil {
		var qr image.Image
		if img, err := export.QRImage(shareLink, 256); err == nil {
			qr = img
		}
		ui.Run(gctx, board, ui.Options{
			Title:     "PixelBoard",
			Keys:      cfg.Keys,
			ShareLink: shareLink,
			QR:        qr,
		})
		stop()
	}

	err = g.Wait()
	if errors.Is(err, editor.ErrQuit) || errors.Is(err, context.Canceled) {
		err = nil
	}
	if cerr := writer.Close(engine.History().Pointer()); cerr != nil && err == nil {
		err = cerr
	}
	log.Println("[HOST] Session closed")
	return err
}

// restore replays an existing session record so that a restarted host
// continues where it left off.
func restore(path string, engine *state.Engine) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open record: %w", err)
	}
	defer f.Close()

	stats, err := record.Replay(f, engine)
	if err != nil {
		return fmt.Errorf("restore %s: %w", path, err)
	}
	log.Printf("[RECORD] Restored %d session(s): %d commits, %d undos, %d redos",
		len(stats.Sessions), stats.Commits, stats.Undos, stats.Redos)
	return nil
}

func runReplay(opts options) error {
	f, err := os.Open(opts.replay)
	if err != nil {
		return fmt.Errorf("open record: %w", err)
	}
	defer f.Close()

	engine := state.NewEngine()
	stats, err := record.Replay(f, engine)
	if err != nil {
		return err
	}
	s := engine.State()
	fmt.Printf("sessions: %d\ncommits: %d\nundos: %d\nredos: %d\nexternal commands: %d\n",
		len(stats.Sessions), stats.Commits, stats.Undos, stats.Redos, stats.External)
	fmt.Printf("pixels: %d\npalette: %d\npointer: %d of %d\n",
		s.Canvas.Len(), s.Palette.Len(), engine.History().Pointer(), engine.History().Len())

	if opts.export == "" {
		return nil
	}
	if err := export.Save(opts.export, engine.CanvasScene(), opts.scale); err != nil {
		return err
	}
	log.Printf("[EXPORT] Wrote %s", opts.export)
	return nil
}

func runClient(opts options) error {
	log.Println("Starting as CLIENT")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := pbnet.Dial(ctx, opts.to, pbnet.OnRecord(func(r record.Record) {
		log.Printf("[CLIENT] Host applied %s", r.Kind())
	}))
	if err != nil {
		return err
	}
	defer c.Close()

	if opts.send != "" {
		return send(c, opts.send)
	}

	// Without -send, every stdin line is one intent.
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := send(c, line); err != nil {
			log.Printf("[CLIENT] %v", err)
		}
	}
	return sc.Err()
}

func send(c *pbnet.Client, raw string) error {
	in, err := state.ParseIntent([]byte(raw))
	if err != nil {
		return err
	}
	m, err := c.Send(in)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", in.Name(), opName(m.Op))
	return nil
}

func opName(op state.Op) string {
	if op == state.OpNone {
		return "no change"
	}
	return string(op)
}

func runBrowse() error {
	hosts, err := pbnet.Browse(3 * time.Second)
	if err != nil {
		return err
	}
	if len(hosts) == 0 {
		fmt.Println("no hosts found")
	}
	for _, h := range hosts {
		fmt.Println(pbnet.LinkScheme + h)
	}
	return nil
}
