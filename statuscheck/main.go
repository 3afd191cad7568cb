// Copyright (C) 2026 Christian Rößner
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// Command statuscheck probes the status endpoint of a running fuzzstat and exits non-zero if it is not reachable.
package main

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/croessner/fuzzstat/metrics"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const statusURL = "http://127.0.0.1:9100/status"

var json = jsoniter.ConfigFastest

// check fetches and decodes the status document.
func check(client *http.Client, url string) (*metrics.Status, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	status := &metrics.Status{}
	if err = json.Unmarshal(content, status); err != nil {
		return nil, err
	}

	return status, nil
}

func main() {
	pflag.StringP("url", "u", statusURL, "fuzzstat status url to test")
	pflag.BoolP("verbose", "v", false, "Be verbose")
	pflag.BoolP("tls-skip-verify", "t", false, "Skip TLS server certificate verification")
	pflag.Parse()

	_ = viper.BindPFlags(pflag.CommandLine)

	if viper.GetBool("verbose") {
		fmt.Println("Checking", viper.GetString("url"))
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: viper.GetBool("tls-skip-verify")},
	}
	httpClient := &http.Client{Timeout: time.Second * 10, Transport: transport}

	status, err := check(httpClient, viper.GetString("url"))
	if err != nil {
		if viper.GetBool("verbose") {
			fmt.Println("Test FAILED:", err)
		}

		os.Exit(1)
	}

	if viper.GetBool("verbose") {
		fmt.Printf("Test OK: iterations=%d execs_avg=%d elapsed=%ds\n", status.Iterations, status.ExecsAverage, status.ElapsedSeconds)
	}
}
