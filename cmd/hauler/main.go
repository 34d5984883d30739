package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"hauler/internal"
	"hauler/internal/catalog"
	"hauler/internal/config"
	"hauler/internal/connectors"
	"hauler/internal/listener"
	"hauler/internal/pipeline"
	"hauler/internal/route"
	"hauler/internal/server"
	"hauler/internal/session"
	"hauler/internal/storage"
	"hauler/internal/util"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	args := os.Args[2:]
	switch cmd {
	case "scan", "scan:import":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		_ = fs.Parse(args)
		if fs.NArg() == 0 {
			must(fmt.Errorf("at least one file is required"))
		}
		index, err := catalog.LoadIndex(db)
		must(err)
		extractor := pipeline.NewExtractor(index, cfg.ExtractLookbackChars)
		results := pipeline.ScanBatch(fs.Args(), pipeline.FileRecognizer{}, extractor, func(percent int) {
			fmt.Fprintf(os.Stderr, "\rscanning %3d%%", percent)
		})
		fmt.Fprintln(os.Stderr)
		segments := 0
		for _, res := range results {
			if res.Err != "" {
				fmt.Printf("%s: error: %s\n", res.Filename, res.Err)
				continue
			}
			n := 0
			if res.Parsed != nil {
				n = len(res.Parsed.Segments)
			}
			segments += n
			fmt.Printf("%s: confidence=%.0f segments=%d\n", res.Filename, res.Confidence, n)
			if res.Parsed != nil {
				for _, seg := range res.Parsed.Segments {
					fmt.Printf("  %d SCU %s  %s -> %s\n", seg.Quantity, seg.Commodity, seg.Pickup, seg.Delivery)
				}
			}
		}
		fmt.Printf("scan done files=%d segments=%d\n", len(results), segments)
		if cmd == "scan:import" {
			ws := loadWorkspace(db, cfg)
			added := ws.Session.ImportParsed(pipeline.ParsedResults(results))
			ws.RegenerateRoute(index, cfg.RoutePruneOrphans)
			must(db.SaveWorkspace(ws))
			fmt.Printf("imported missions=%d stops=%d\n", len(added), len(ws.Delivery.RouteStops))
		}
	case "mission:list":
		ws := loadWorkspace(db, cfg)
		printMissions(ws.Session)
	case "mission:add":
		ws := loadWorkspace(db, cfg)
		m := ws.Session.AddMission()
		must(db.SaveWorkspace(ws))
		fmt.Printf("added %s row=%s\n", m.ID, m.Commodities[0].ID)
	case "mission:remove":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("id", "", "mission id")
		_ = fs.Parse(args)
		must(cfg.Require("--id", *id))
		ws := loadWorkspace(db, cfg)
		ws.Session.RemoveMission(*id)
		must(db.SaveWorkspace(ws))
		fmt.Printf("removed %s\n", *id)
	case "mission:reorder":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		ids := fs.String("ids", "", "comma separated mission ids")
		_ = fs.Parse(args)
		ws := loadWorkspace(db, cfg)
		ws.Session.ReorderMissions(splitList(*ids))
		must(db.SaveWorkspace(ws))
		printMissions(ws.Session)
	case "mission:payout":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("id", "", "mission id")
		value := fs.String("value", "", "payout shorthand, e.g. 45k")
		_ = fs.Parse(args)
		must(cfg.Require("--id", *id))
		ws := loadWorkspace(db, cfg)
		must(ws.Session.UpdatePayout(*id, *value))
		must(db.SaveWorkspace(ws))
		fmt.Printf("payout %s=%s\n", *id, *value)
	case "mission:row:add":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("mission", "", "mission id")
		_ = fs.Parse(args)
		must(cfg.Require("--mission", *id))
		ws := loadWorkspace(db, cfg)
		row, err := ws.Session.AddCommodityRow(*id)
		must(err)
		must(db.SaveWorkspace(ws))
		fmt.Printf("added row %s to %s\n", row.ID, *id)
	case "mission:row:remove":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("mission", "", "mission id")
		rowID := fs.String("row", "", "commodity row id")
		_ = fs.Parse(args)
		must(cfg.Require("--mission", *id))
		must(cfg.Require("--row", *rowID))
		ws := loadWorkspace(db, cfg)
		must(ws.Session.RemoveCommodityRow(*id, *rowID))
		must(db.SaveWorkspace(ws))
		fmt.Printf("removed row %s from %s\n", *rowID, *id)
	case "mission:row:set":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("mission", "", "mission id")
		rowID := fs.String("row", "", "commodity row id")
		field := fs.String("field", "", "commodity|pickup|destination|quantity|maxBoxSize")
		value := fs.String("value", "", "new value")
		_ = fs.Parse(args)
		must(cfg.Require("--mission", *id))
		must(cfg.Require("--row", *rowID))
		v, err := fieldValue(session.CommodityField(*field), *value)
		must(err)
		ws := loadWorkspace(db, cfg)
		must(ws.Session.UpdateCommodityRow(*id, *rowID, session.CommodityField(*field), v))
		must(db.SaveWorkspace(ws))
		fmt.Printf("set %s.%s=%s\n", *rowID, *field, *value)
	case "mission:select":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		ship := fs.String("ship", "", "ship id")
		system := fs.String("system", "", "star system")
		category := fs.String("category", "", "mission category")
		_ = fs.Parse(args)
		ws := loadWorkspace(db, cfg)
		if *ship != "" {
			ws.Session.SelectedShipID = util.StringPtr(*ship)
		}
		if *system != "" {
			ws.Session.SelectedSystem = *system
		}
		if *category != "" {
			ws.Session.SelectedCategory = *category
		}
		must(db.SaveWorkspace(ws))
		printMissions(ws.Session)
	case "mission:clear":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		all := fs.Bool("all", false, "also clear ship, system and category")
		_ = fs.Parse(args)
		ws := loadWorkspace(db, cfg)
		if *all {
			ws.Session.Clear()
		} else {
			ws.Session.ClearMissions()
		}
		must(db.SaveWorkspace(ws))
		fmt.Println("missions cleared")
	case "route":
		index, err := catalog.LoadIndex(db)
		must(err)
		ws := loadWorkspace(db, cfg)
		ws.RegenerateRoute(index, cfg.RoutePruneOrphans)
		must(db.SaveWorkspace(ws))
		fmt.Print(renderRoute(ws.Delivery, ws.Delivery.RouteStops))
		fmt.Print(renderGrid(ws.Delivery))
	case "route:show":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		all := fs.Bool("all", false, "ignore the view mode")
		_ = fs.Parse(args)
		ws := loadWorkspace(db, cfg)
		stops := ws.Delivery.VisibleStops()
		if *all {
			stops = ws.Delivery.RouteStops
		}
		fmt.Print(renderRoute(ws.Delivery, stops))
		fmt.Print(renderGrid(ws.Delivery))
	case "route:reorder":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		ids := fs.String("ids", "", "comma separated stop ids")
		_ = fs.Parse(args)
		ws := loadWorkspace(db, cfg)
		ws.Delivery.ReorderStops(splitList(*ids))
		must(db.SaveWorkspace(ws))
		fmt.Print(renderRoute(ws.Delivery, ws.Delivery.RouteStops))
	case "route:toggle":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		stop := fs.String("stop", "", "stop id")
		_ = fs.Parse(args)
		must(cfg.Require("--stop", *stop))
		ws := loadWorkspace(db, cfg)
		done := ws.Delivery.ToggleStep(*stop)
		must(db.SaveWorkspace(ws))
		fmt.Printf("%s done=%t\n", *stop, done)
	case "route:reset":
		ws := loadWorkspace(db, cfg)
		ws.Delivery.ResetSteps()
		must(db.SaveWorkspace(ws))
		fmt.Println("route steps reset")
	case "route:view":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		mode := fs.String("mode", "all", "all|current|current-next")
		_ = fs.Parse(args)
		ws := loadWorkspace(db, cfg)
		must(ws.Delivery.SetViewMode(internal.RouteViewMode(*mode)))
		must(db.SaveWorkspace(ws))
		fmt.Printf("view mode=%s\n", *mode)
	case "cargo:grid":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		cols := fs.Int("cols", route.DefaultGridLayout.Cols, "grid columns")
		rows := fs.Int("rows", route.DefaultGridLayout.Rows, "grid rows")
		_ = fs.Parse(args)
		ws := loadWorkspace(db, cfg)
		must(ws.Delivery.SetGridLayout(internal.GridLayout{Cols: *cols, Rows: *rows}))
		must(db.SaveWorkspace(ws))
		fmt.Print(renderGrid(ws.Delivery))
	case "cargo:move":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		location := fs.String("location", "", "delivery location")
		cell := fs.Int("cell", -1, "target grid cell (0 based)")
		_ = fs.Parse(args)
		must(cfg.Require("--location", *location))
		ws := loadWorkspace(db, cfg)
		must(ws.Delivery.MoveGroup(*location, *cell))
		must(db.SaveWorkspace(ws))
		fmt.Print(renderGrid(ws.Delivery))
	case "cargo:color":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		location := fs.String("location", "", "delivery location")
		color := fs.String("color", "", "hex colour")
		_ = fs.Parse(args)
		must(cfg.Require("--location", *location))
		ws := loadWorkspace(db, cfg)
		must(ws.Delivery.SetGroupColor(*location, *color))
		must(db.SaveWorkspace(ws))
		fmt.Print(renderGrid(ws.Delivery))
	case "cargo:label":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		location := fs.String("location", "", "delivery location")
		label := fs.String("label", "", "group label")
		_ = fs.Parse(args)
		must(cfg.Require("--location", *location))
		ws := loadWorkspace(db, cfg)
		must(ws.Delivery.SetGroupLabel(*location, *label))
		must(db.SaveWorkspace(ws))
		fmt.Print(renderGrid(ws.Delivery))
	case "theme":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		name := fs.String("name", route.DefaultTheme, "theme name")
		_ = fs.Parse(args)
		ws := loadWorkspace(db, cfg)
		ws.UI.Theme = *name
		must(db.SaveWorkspace(ws))
		fmt.Printf("theme=%s palette=%s\n", *name, strings.Join(route.Palette(*name), " "))
	case "export:json", "export:csv", "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output path (default OUTPUT_DIR/<generated name>)")
		_ = fs.Parse(args)
		ws := loadWorkspace(db, cfg)
		ext := strings.TrimPrefix(cmd, "export:")
		path := *out
		if path == "" {
			path = filepath.Join(cfg.OutputDir, pipeline.ExportFilename(ws.Session.SelectedShipID, ext, time.Now()))
		}
		must(os.MkdirAll(filepath.Dir(path), 0o755))
		switch ext {
		case "json":
			data, err := pipeline.ExportJSON(ws.Session, time.Now())
			must(err)
			must(os.WriteFile(path, data, 0o644))
		case "csv":
			must(os.WriteFile(path, []byte(pipeline.ExportCSV(ws.Session.Missions)), 0o644))
		default:
			must(pipeline.ExportXLSX(ws.Session.Missions, path))
		}
		fmt.Printf("exported missions=%d to %s\n", len(ws.Session.Missions), path)
	case "import:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		in := fs.String("in", "", "xlsx path")
		_ = fs.Parse(args)
		must(cfg.Require("--in", *in))
		missions, err := pipeline.ImportXLSX(*in)
		must(err)
		ws := loadWorkspace(db, cfg)
		added := ws.Session.ImportMissions(missions)
		must(db.SaveWorkspace(ws))
		fmt.Printf("imported missions=%d from %s\n", len(added), *in)
	case "state:migrate":
		migrated, err := db.MigrateLegacy()
		must(err)
		fmt.Printf("legacy migration migrated=%t\n", migrated)
	case "aliases:sync":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		ifStale := fs.Duration("if-stale", 0, "only sync when the last sync is older than this")
		_ = fs.Parse(args)
		must(cfg.Require("CATALOG_API_BASE_URL", cfg.CatalogAPIBaseURL))
		svc := catalog.NewSyncService(db, cfg)
		if *ifStale > 0 {
			ran, err := svc.SyncIfStale(context.Background(), *ifStale)
			must(err)
			fmt.Printf("aliases sync ran=%t\n", ran)
			return
		}
		count, err := svc.Sync(context.Background())
		must(err)
		fmt.Printf("aliases sync done records=%d\n", count)
	case "aliases:suggest":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		kind := fs.String("kind", string(internal.AliasLocation), "location|commodity")
		name := fs.String("name", "", "name to look up")
		_ = fs.Parse(args)
		must(cfg.Require("--name", *name))
		index, err := catalog.LoadIndex(db)
		must(err)
		k := internal.AliasKind(*kind)
		if index.Known(k, *name) {
			fmt.Printf("%s is known as %s\n", *name, index.Normalize(k, *name))
			return
		}
		if best, score, ok := index.Suggest(k, *name); ok {
			fmt.Printf("did you mean %s? score=%.2f\n", best, score)
			return
		}
		fmt.Printf("no suggestion for %s\n", *name)
	case "mail:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", cfg.MailListenerProvider, "imap|gmail|dir")
		label := fs.String("label", cfg.MailListenerLabel, "mailbox/label")
		max := fs.Int("max", 50, "max messages")
		_ = fs.Parse(args)
		ctx := context.Background()
		conn, err := connectors.New(ctx, cfg, *provider)
		must(err)
		result, err := connectors.NewFetchService(db, cfg.InboxRawDir, conn).FetchAndStore(ctx, *label, *max)
		must(err)
		fmt.Printf("mail fetch done provider=%s fetched=%d stored=%d new=%d\n", *provider, result.Fetched, result.Stored, result.New)
	case "mail:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", "", "only this provider (default any)")
		messageID := fs.String("messageId", "", "specific message-id")
		batch := fs.Int("batch", cfg.MailListenerProcessBatch, "batch size")
		_ = fs.Parse(args)
		processor := pipeline.NewProcessingService(db, cfg)
		if strings.TrimSpace(*messageID) != "" {
			must(cfg.Require("--provider", *provider))
			res, err := processor.ProcessByProviderMessageID(*provider, *messageID)
			must(err)
			fmt.Printf("processed inbox id=%d missions=%d segments=%d\n", res.InboxID, res.Missions, res.Segments)
			return
		}
		messages, missions, err := processor.ProcessPending(*batch, *provider)
		must(err)
		fmt.Printf("processed pending messages=%d missions=%d\n", messages, missions)
	case "mail:listen":
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		must(listener.NewService(db, cfg).Run(ctx))
	case "serve":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		addr := fs.String("addr", cfg.HTTPAddr, "listen address")
		_ = fs.Parse(args)
		srv := &http.Server{Addr: *addr, Handler: server.New(db, cfg).Router()}
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		go func() {
			<-ctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}()
		fmt.Printf("serving on %s\n", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			must(err)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func loadWorkspace(db *storage.DB, cfg config.Config) *storage.Workspace {
	ws, err := db.LoadWorkspace(storage.Defaults{
		Theme: cfg.Theme,
		Grid:  internal.GridLayout{Cols: cfg.GridCols, Rows: cfg.GridRows},
	})
	must(err)
	return ws
}

func fieldValue(field session.CommodityField, raw string) (any, error) {
	switch field {
	case session.FieldQuantity, session.FieldMaxBoxSize:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%s wants a number: %w", field, err)
		}
		return n, nil
	}
	return raw, nil
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func usage() {
	fmt.Println("usage: hauler <command>")
	fmt.Println("commands:")
	fmt.Println("  scan <file>...                 extract missions from text, pdf, html or eml files")
	fmt.Println("  scan:import <file>...          scan, add to the session and rebuild the route")
	fmt.Println("  mission:list | mission:add | mission:clear [--all]")
	fmt.Println("  mission:remove --id=... | mission:reorder --ids=a,b | mission:payout --id=... --value=45k")
	fmt.Println("  mission:row:add --mission=... | mission:row:remove --mission=... --row=...")
	fmt.Println("  mission:row:set --mission=... --row=... --field=quantity --value=10")
	fmt.Println("  mission:select --ship=... --system=... --category=...")
	fmt.Println("  route | route:show [--all] | route:reorder --ids=... | route:toggle --stop=... | route:reset")
	fmt.Println("  route:view --mode=all|current|current-next")
	fmt.Println("  cargo:grid --cols=2 --rows=4 | cargo:move --location=... --cell=0")
	fmt.Println("  cargo:color --location=... --color=#ff0000 | cargo:label --location=... --label=...")
	fmt.Println("  theme --name=stardust")
	fmt.Println("  export:json|export:csv|export:xlsx [--out=...] | import:xlsx --in=...")
	fmt.Println("  state:migrate")
	fmt.Println("  aliases:sync [--if-stale=24h] | aliases:suggest --kind=location --name=...")
	fmt.Println("  mail:fetch --provider=imap|gmail|dir --label=INBOX --max=50")
	fmt.Println("  mail:process [--provider=...] [--messageId=...] [--batch=20]")
	fmt.Println("  mail:listen")
	fmt.Println("  serve [--addr=:8080]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
