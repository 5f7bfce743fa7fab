// Command gendata writes synthetic CO2, temperature and humidity CSV files in
// the format the envmon server loads, for demos and local development.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/nicktill/envmon/pkg/config"
	"github.com/nicktill/envmon/pkg/series"
)

func main() {
	dir := flag.String("out", config.DefaultDataDir, "output directory")
	span := flag.Duration("span", 10*24*time.Hour, "how far back the data reaches")
	interval := flag.Duration("interval", time.Minute, "time between readings")
	spikeEvery := flag.Int("spike-every", 2000, "start a spike every N readings (0 = none)")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	if err := os.MkdirAll(*dir, 0755); err != nil {
		log.Fatalf("❌ Failed to create %s: %v", *dir, err)
	}

	opts := generateOptions{
		End:        time.Now().UTC().Truncate(time.Second),
		Span:       *span,
		Interval:   *interval,
		SpikeEvery: *spikeEvery,
		Seed:       *seed,
	}

	files := map[series.Quantity]string{
		series.CO2:         config.DefaultCO2File,
		series.Temperature: config.DefaultTemperatureFile,
		series.Humidity:    config.DefaultHumidityFile,
	}

	for _, q := range series.Quantities {
		path := filepath.Join(*dir, files[q])
		f, err := os.Create(path)
		if err != nil {
			log.Fatalf("❌ Failed to create %s: %v", path, err)
		}

		n, err := generate(f, q, opts)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			log.Fatalf("❌ Failed to write %s: %v", path, err)
		}
		log.Printf("✅ Wrote %d %s readings to %s", n, q.Name(), path)
	}
}
