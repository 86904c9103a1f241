package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"gitlab.com/dirk.krummacker/addressbook/pkg/model"
)

const serverPort = 8080

// Measures the average duration in microseconds of the REST API calls for growing numbers of
// contacts. The service must be running and should be started with GIN_LOGGING=off.
//
// Usage example on the command line:
// > go run main.go
func main() {
	fmt.Println()
	fmt.Println("  Elements      POST       PUT       GET    DELETE ")
	fmt.Println("---------------------------------------------------")
	sizes := []int{1000, 5000, 10000, 50000}
	for _, loops := range sizes {
		names := createRandomNames(loops)
		fmt.Printf("%10d", loops)
		{
			// POST requests
			var duration int64
			for i, name := range names {
				body := mustMarshal(model.Contact{Name: name, Phones: []string{phoneNumber(i)}})
				_, d := sendRequest(http.MethodPost, contactsURL(""), bytes.NewReader(body))
				duration += d
			}
			fmt.Printf("%10d", duration/int64(loops*1000))
		}
		{
			// PUT requests
			callInLoop(names, func(i int, name string) int64 {
				body := mustMarshal(map[string]string{"phone": phoneNumber(i + loops)})
				_, d := sendRequest(http.MethodPut, contactsURL(name, "phones", phoneNumber(i)), bytes.NewReader(body))
				return d
			})
		}
		{
			// GET requests
			callInLoop(names, func(_ int, name string) int64 {
				_, d := sendRequest(http.MethodGet, contactsURL(name), nil)
				return d
			})
		}
		{
			// DELETE requests
			callInLoop(names, func(_ int, name string) int64 {
				_, d := sendRequest(http.MethodDelete, contactsURL(name), nil)
				return d
			})
		}
		fmt.Println()
	}
}

// callInLoop calls f for every name in random order and prints the average duration.
func callInLoop(names []string, f func(i int, name string) int64) {
	order := rand.Perm(len(names))
	var duration int64
	for _, i := range order {
		duration += f(i, names[i])
	}
	fmt.Printf("%10d", duration/int64(len(names)*1000))
}

// createRandomNames returns unique contact names for one round of measurements.
func createRandomNames(count int) []string {
	prefix := rand.Int63()
	names := make([]string, 0, count)
	for i := 0; i < count; i++ {
		names = append(names, fmt.Sprintf("Marcus Antonius %d-%d", prefix, i))
	}
	return names
}

func phoneNumber(i int) string {
	return fmt.Sprintf("%010d", i)
}

func contactsURL(segments ...string) string {
	u := fmt.Sprintf("http://localhost:%d/contacts", serverPort)
	for _, segment := range segments {
		if segment != "" {
			u += "/" + url.PathEscape(segment)
		}
	}
	return u
}

func mustMarshal(v any) []byte {
	body, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return body
}

func sendRequest(method string, requestURL string, bodyReader io.Reader) ([]byte, int64) {
	req, err := http.NewRequest(method, requestURL, bodyReader)
	if err != nil {
		fmt.Println("could not create request", err)
		panic(err)
	}
	req.Header.Set("Content-Type", "application/json")
	before := time.Now().UnixNano()
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		panic(err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Println("could not read response body", err)
		panic(err)
	}
	after := time.Now().UnixNano()
	return resBody, after - before
}
