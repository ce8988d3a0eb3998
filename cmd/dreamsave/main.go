package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	save "github.com/zoobzio/dreamsave"
)

func main() {
	var file string
	var key string
	var name string
	var level int
	var currency string
	var listBackups bool
	var write bool
	var out string
	flag.CommandLine.SetOutput(os.Stdout)
	flag.StringVar(&file, "file", "", "save file to load (default: auto-detect the latest profile.json)")
	flag.StringVar(&key, "key", "", "decryption key as hex pairs, separators allowed (default: the well-known key)")
	flag.StringVar(&name, "name", "", "set the player name")
	flag.IntVar(&level, "level", 0, "set the player level")
	flag.StringVar(&currency, "currency", "", "set a currency amount, e.g. 80000000=50000")
	flag.BoolVar(&listBackups, "backups", false, "list backups and exit")
	flag.BoolVar(&write, "write", false, "write changes back to the save file")
	flag.StringVar(&out, "out", "", "write to this path instead of the source file")
	flag.Parse()

	cfg, err := save.ParseEnv()
	if err != nil {
		slog.Error("config", "error", err.Error())
		os.Exit(1)
	}
	svc := save.NewService(cfg)
	ctx := context.Background()

	if listBackups {
		entries, err := svc.Backups().List()
		if err != nil {
			slog.Error("list backups", "error", err.Error())
			os.Exit(1)
		}
		for _, e := range entries {
			fmt.Printf("%s\t%d bytes\t%s\n", e.Name, e.Size, e.Modified.Format("2006-01-02 15:04:05"))
		}
		os.Exit(0)
	}

	var sess *save.Session
	if file == "" {
		sess, err = svc.AutoLoad(ctx, key)
	} else {
		if key == "" {
			key = save.DefaultHexKey
		}
		sess, err = svc.Load(ctx, file, key)
	}
	if err != nil {
		var loadErr *save.LoadError
		if errors.As(err, &loadErr) {
			slog.Error("load", "error", err.Error(), "hint", loadErr.Hint())
		} else {
			slog.Error("load", "error", err.Error())
		}
		os.Exit(1)
	}

	data := sess.Data()
	slog.Info("loaded", "file", sess.Path(), "encrypted", sess.Encrypted())

	for _, issue := range data.Validate() {
		slog.Warn("validation", "issue", issue)
	}

	dirty := false
	if name != "" {
		data.PlayerName = name
		dirty = true
	}
	if level > 0 {
		data.PlayerLevel = level
		dirty = true
	}
	if currency != "" {
		code, amount, err := parseCurrency(currency)
		if err != nil {
			slog.Error("currency", "error", err.Error())
			os.Exit(1)
		}
		data.SetCurrency(code, amount)
		dirty = true
	}

	printSummary(data)

	if !write && !dirty {
		os.Exit(0)
	}
	if !write {
		slog.Info("changes staged but not written; pass -write to apply")
		os.Exit(0)
	}

	dest := sess.Path()
	if out != "" {
		dest = out
		err = sess.SaveTo(ctx, out)
	} else {
		err = sess.Save(ctx)
	}
	if err != nil {
		slog.Error("save", "error", err.Error())
		os.Exit(1)
	}
	slog.Info("saved", "file", dest)
}

func parseCurrency(arg string) (save.CurrencyCode, int, error) {
	code, value, ok := strings.Cut(arg, "=")
	if !ok {
		return "", 0, fmt.Errorf("expected CODE=AMOUNT, got %q", arg)
	}
	amount, err := strconv.Atoi(value)
	if err != nil {
		return "", 0, fmt.Errorf("amount %q is not an integer", value)
	}
	return save.CurrencyCode(code), amount, nil
}

func printSummary(data *save.SaveData) {
	fmt.Printf("Player:  %s (level %d)\n", data.PlayerName, data.PlayerLevel)
	codes := []save.CurrencyCode{
		save.CurrencyStarCoins,
		save.CurrencyDreamlight,
		save.CurrencyDaisyCoins,
		save.CurrencyMist,
		save.CurrencyPixelDust,
	}
	for _, code := range codes {
		fmt.Printf("  %-12s %d\n", save.CurrencyName(code), data.Currency(code))
	}
	fmt.Printf("Items:   %d\n", len(data.InventoryItems))
	fmt.Printf("Pets:    %d\n", len(data.Pets))
	if data.GameVersion != "" {
		fmt.Printf("Version: %s (save %s)\n", data.GameVersion, data.SaveVersion)
	}
}
