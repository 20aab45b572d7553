package log_test

import (
	"bufio"
	"encoding/json"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	persistlog "github.com/skytopia/Shoptopia/internal/persistence/log"
	"github.com/skytopia/Shoptopia/internal/shop"
)

func readEntries(t *testing.T, dir string) []shop.TradeEntry {
	t.Helper()
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	var out []shop.TradeEntry
	for _, e := range ents {
		if !strings.HasSuffix(e.Name(), ".jsonl.zst") {
			continue
		}
		f, err := os.Open(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		dec, err := zstd.NewReader(f)
		if err != nil {
			t.Fatalf("zstd: %v", err)
		}
		sc := bufio.NewScanner(dec)
		for sc.Scan() {
			var entry shop.TradeEntry
			if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
				t.Fatalf("unmarshal %q: %v", sc.Text(), err)
			}
			out = append(out, entry)
		}
		dec.Close()
		_ = f.Close()
	}
	return out
}

func TestTradeLogger_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	l := persistlog.NewTradeLogger(dir, stdlog.New(io.Discard, "", 0))

	l.RecordTrade(shop.TradeEntry{
		Time: "2026-09-01T12:00:00Z", Type: shop.TradeBuy,
		Actor: "steve", Owner: "7", World: "world_1",
		X: 1, Y: 64, Z: 2, Item: "WOOD", Amount: 10, Price: 5, OK: true,
	})
	l.RecordTrade(shop.TradeEntry{
		Time: "2026-09-01T12:00:01Z", Type: shop.TradeRespawn,
		Owner: "ADMIN", World: "world_1", X: 0, Y: 70, Z: 0, OK: true,
	})
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	entries := readEntries(t, filepath.Join(dir, "trades"))
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	if entries[0].Type != shop.TradeBuy || entries[0].Amount != 10 || entries[0].Item != "WOOD" {
		t.Fatalf("entry 0: %+v", entries[0])
	}
	if entries[1].Type != shop.TradeRespawn || entries[1].Owner != "ADMIN" {
		t.Fatalf("entry 1: %+v", entries[1])
	}
}

func TestJSONLZstdWriter_AppendsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	w := persistlog.NewJSONLZstdWriter(dir, "trades")
	if err := w.Write(map[string]int{"n": 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(ents) != 1 || !strings.HasPrefix(ents[0].Name(), "trades-") {
		t.Fatalf("unexpected files: %v", ents)
	}
}
