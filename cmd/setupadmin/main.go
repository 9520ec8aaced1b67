// setupadmin triggers the one-shot admin provisioning endpoint from the
// command line, the second entry point of the bootstrap flow.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/krishaprecyll/CampusSHARE/util/httpx"
)

type setupResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Email   string `json:"email"`
	UserID  string `json:"userId"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "base URL of the CampusSHARE server")
	flag.Parse()

	req, err := http.NewRequest(http.MethodPost, *baseURL+"/admin/setup", nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "setupadmin:", err)
		os.Exit(1)
	}

	resp, err := httpx.Client().Do(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "setupadmin: request failed:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var out setupResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		fmt.Fprintln(os.Stderr, "setupadmin: bad response:", err)
		os.Exit(1)
	}

	if !out.Success {
		fmt.Fprintf(os.Stderr, "setupadmin: %s\n", out.Error)
		os.Exit(1)
	}

	fmt.Printf("%s (%s)\n", out.Message, out.Email)
	if out.UserID != "" {
		fmt.Println("user id:", out.UserID)
	}
}
