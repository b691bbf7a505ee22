// Command test_integration drives a running deepmemory server through a full
// capture cycle: people, a shared memory, the derived relationships and the
// focused graph view.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func baseURL() string {
	if u := os.Getenv("DEEPMEMORY_URL"); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func main() {
	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting Integration Test...")

	suffix := fmt.Sprintf("%d", time.Now().Unix())
	alice := "smoke-alice-" + suffix
	bob := "smoke-bob-" + suffix
	eventID := "smoke-event-" + suffix

	fmt.Println("1. Creating people...")
	for _, id := range []string{alice, bob} {
		payload := map[string]string{"name": id, "description": "created by the smoke test"}
		if _, ok := sendRequest("PUT", "/api/nodes/"+id, payload, http.StatusOK); !ok {
			fail("Create person " + id)
		}
	}
	fmt.Println("PASSED: Create people")

	fmt.Println("2. Recording a shared memory...")
	event := map[string]interface{}{
		"id":            eventID,
		"title":         "Smoke test dinner",
		"date":          time.Now().Format("2006-01-02"),
		"content":       "Alice and Bob came over for dinner.",
		"related_nodes": []string{"root_me", alice, bob},
	}
	if _, ok := sendRequest("POST", "/api/events", event, http.StatusCreated); !ok {
		fail("Record memory")
	}
	fmt.Println("PASSED: Record memory")

	fmt.Println("3. Checking the derived relationship...")
	body, ok := sendRequest("GET", "/api/edges?source="+alice+"&target="+bob, nil, http.StatusNoContent)
	if !ok {
		fail("Derived relationship")
	}
	var edge struct {
		Weight int `json:"weight"`
	}
	if err := json.Unmarshal(body, &edge); err != nil || edge.Weight != 1 {
		fail(fmt.Sprintf("Derived relationship: unexpected edge %s", string(body)))
	}
	fmt.Println("PASSED: Derived relationship")

	fmt.Println("4. Fetching the focused graph...")
	body, ok = sendRequest("GET", "/api/graph?center="+alice+"&k=1", nil, http.StatusNoContent)
	if !ok {
		fail("Focused graph")
	}
	var view struct {
		Focused bool              `json:"focused"`
		Nodes   []json.RawMessage `json:"nodes"`
	}
	if err := json.Unmarshal(body, &view); err != nil || !view.Focused || len(view.Nodes) != 3 {
		fail(fmt.Sprintf("Focused graph: unexpected view %s", string(body)))
	}
	fmt.Println("PASSED: Focused graph")

	fmt.Println("5. Cleaning up...")
	sendRequest("DELETE", "/api/events/"+eventID, nil, http.StatusNoContent)
	sendRequest("DELETE", "/api/nodes/"+alice, nil, http.StatusNoContent)
	sendRequest("DELETE", "/api/nodes/"+bob, nil, http.StatusNoContent)
	fmt.Println("Done.")
}

func fail(step string) {
	fmt.Println("FAILED: " + step)
	os.Exit(1)
}

func sendRequest(method, endpoint string, payload interface{}, want int) ([]byte, bool) {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL()+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return nil, false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != want {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return respBody, false
	}

	fmt.Printf("Response: %s\n", string(respBody))
	return respBody, true
}
