package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"windflow/datasource"
	"windflow/models"
)

// MockForecastSource simulates upstream latency and counts calls
type MockForecastSource struct {
	callCount int
	mutex     sync.Mutex
	latency   time.Duration
}

func NewMockForecastSource(latency time.Duration) *MockForecastSource {
	return &MockForecastSource{latency: latency}
}

func (m *MockForecastSource) FetchWindSeries(ctx context.Context) (models.ForecastSeries, error) {
	m.mutex.Lock()
	m.callCount++
	currentCount := m.callCount
	m.mutex.Unlock()

	fmt.Printf("%s - Processing request #%d\n", time.Now().Format("15:04:05.000"), currentCount)

	select {
	case <-time.After(m.latency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	start := time.Now().Truncate(time.Hour)
	series := make(models.ForecastSeries, 24)
	for i := range series {
		direction := float64((i * 15) % 360)
		series[i] = models.ForecastSample{
			Time:              start.Add(time.Duration(i) * time.Hour),
			WindSpeed:         5.5,
			WindDirection:     direction,
			CardinalDirection: datasource.CardinalDirection(direction),
		}
	}
	return series, nil
}

func (m *MockForecastSource) Name() string {
	return "MockForecast"
}

func (m *MockForecastSource) GetCallCount() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.callCount
}

func main() {
	requestsPerSecond := flag.Float64("rps", 1.0, "Rate limit in requests per second")
	burstSize := flag.Int("burst", 3, "Maximum burst size")
	totalRequests := flag.Int("requests", 10, "Total number of requests to make")
	concurrentRequests := flag.Int("concurrent", 5, "Number of concurrent requests")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mock := NewMockForecastSource(200 * time.Millisecond)
	limited := datasource.NewRateLimitedForecastSource(mock, *requestsPerSecond, *burstSize)

	fmt.Printf("Testing %s with:\n", limited.Name())
	fmt.Printf("- Rate limit: %.2f requests/second\n", *requestsPerSecond)
	fmt.Printf("- Burst size: %d\n", *burstSize)
	fmt.Printf("- Total requests: %d\n", *totalRequests)
	fmt.Printf("- Concurrent workers: %d\n", *concurrentRequests)
	fmt.Println("Starting test...")

	startTime := time.Now()
	var wg sync.WaitGroup

	for i := 0; i < *concurrentRequests; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			requestsPerWorker := *totalRequests / *concurrentRequests
			if workerID < *totalRequests%*concurrentRequests {
				requestsPerWorker++
			}

			for j := 0; j < requestsPerWorker; j++ {
				before := time.Now()
				series, err := limited.FetchWindSeries(ctx)
				elapsed := time.Since(before)

				if err != nil {
					log.Printf("Worker %d - Request %d failed: %v", workerID, j, err)
				} else {
					log.Printf("Worker %d - Request %d got %d samples in %v", workerID, j, len(series), elapsed)
				}
			}
		}(i)
	}

	wg.Wait()

	totalTime := time.Since(startTime)
	actualRPS := float64(*totalRequests) / totalTime.Seconds()

	fmt.Println("\nTest completed!")
	fmt.Printf("Total time: %.2f seconds\n", totalTime.Seconds())
	fmt.Printf("Actual requests per second: %.2f\n", actualRPS)
	fmt.Printf("Total requests processed: %d\n", mock.GetCallCount())

	expectedMinTime := float64(*totalRequests-*burstSize) / *requestsPerSecond
	if expectedMinTime < 0 {
		expectedMinTime = 0
	}
	fmt.Printf("Expected minimum time (theoretical): %.2f seconds\n", expectedMinTime)

	if actualRPS > *requestsPerSecond*1.5 && *totalRequests > *burstSize {
		fmt.Println("\nWARNING: Actual RPS significantly higher than configured rate limit!")
		fmt.Println("Rate limiting may not be working as expected.")
	} else {
		fmt.Println("\nRate limiting appears to be working correctly.")
	}
}
