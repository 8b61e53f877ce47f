package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"windflow/cache"
	"windflow/config"
	"windflow/datasource"

	"github.com/joho/godotenv"
)

func main() {
	cacheDuration := flag.Duration("ttl", 15*time.Second, "Cache duration for the demonstration")
	configFile := flag.String("config", "config.json", "Path to configuration file")
	flag.Parse()

	fmt.Println("=== Running Cache Test ===")
	fmt.Println("This will demonstrate how caching works with repeated Open-Meteo requests")
	fmt.Printf("The test will take about %s to complete...\n\n", 2*(*cacheDuration))

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file:", err)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	provider := datasource.NewOpenMeteoProvider(datasource.OpenMeteoOptions{
		BaseURL:      cfg.OpenMeteo.BaseURL,
		Latitude:     cfg.OpenMeteo.Latitude,
		Longitude:    cfg.OpenMeteo.Longitude,
		ForecastDays: cfg.OpenMeteo.ForecastDays,
		Timezone:     cfg.OpenMeteo.Timezone,
	})
	source := cache.NewCachedForecastSource(provider, *cacheDuration)
	fmt.Printf("Using %s at %.4f,%.4f with a %s cache\n",
		source.Name(), cfg.OpenMeteo.Latitude, cfg.OpenMeteo.Longitude, *cacheDuration)

	ctx := context.Background()

	fmt.Println("\n*** First Request - Should be a cache miss ***")
	makeRequest(ctx, source)

	fmt.Println("\n*** Second Request - Should use cached data ***")
	makeRequest(ctx, source)

	fmt.Println("\n*** Third Request - Still using cached data ***")
	makeRequest(ctx, source)

	fmt.Printf("\nWaiting for cache to expire (%s)...\n", *cacheDuration)
	time.Sleep(*cacheDuration + time.Second)

	fmt.Println("\n*** After Expiry - Should be a cache miss again ***")
	makeRequest(ctx, source)

	// 2 hits and 2 misses when every request succeeded
	hits, misses := source.CacheStats()
	fmt.Printf("\nStats for %s: %d cache hits, %d cache misses\n", source.Name(), hits, misses)

	fmt.Println("\n=== Cache Test Complete ===")
}

func makeRequest(ctx context.Context, source datasource.ForecastSource) {
	start := time.Now()
	series, err := source.FetchWindSeries(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(series) == 0 {
		fmt.Println("Got an empty series")
		return
	}
	first := series[0]
	fmt.Printf("Got %d hourly samples in %v; first %s: %.2f km/h from %s\n",
		len(series), time.Since(start).Round(time.Millisecond),
		first.Time.Format("2006-01-02 15:04"), first.WindSpeed, first.CardinalDirection)
}
