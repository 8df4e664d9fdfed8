// Stub verification workflow for local development. Classifies addresses
// deterministically so the UI and pipeline can be exercised without the real
// workflow deployment.
package main

import (
	"encoding/base64"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jeditech/verify-hub/internal/normalize"
	"github.com/jeditech/verify-hub/internal/verify"
)

type request struct {
	Method   string   `json:"method"`
	Email    string   `json:"email"`
	Emails   []string `json:"emails"`
	BatchID  string   `json:"batchId"`
	FileName string   `json:"fileName"`
	FileData string   `json:"fileData"`
}

var disposableDomains = map[string]bool{
	"mailinator.com":    true,
	"guerrillamail.com": true,
	"tempmail.com":      true,
	"10minutemail.com":  true,
}

var personalDomains = map[string]bool{
	"gmail.com":   true,
	"yahoo.com":   true,
	"outlook.com": true,
	"hotmail.com": true,
	"aol.com":     true,
}

func classify(email string) verify.Result {
	at := strings.LastIndex(email, "@")
	domain := ""
	if at >= 0 {
		domain = strings.ToLower(email[at+1:])
	}

	r := verify.Result{
		Email:       email,
		Domain:      domain,
		HasMXRecord: true,
		VerifiedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	switch {
	case !normalize.IsValidAddress(email):
		r.Status = verify.StatusInvalid
		r.HasMXRecord = false
	case disposableDomains[domain]:
		r.Status = verify.StatusDisposable
		r.DomainType = verify.DomainPersonal
	case strings.HasPrefix(email, "risky"):
		r.Status = verify.StatusRisky
		r.DomainType = verify.DomainBusiness
	default:
		r.Status = verify.StatusValid
		switch {
		case personalDomains[domain]:
			r.DomainType = verify.DomainPersonal
		case strings.HasSuffix(domain, ".edu"):
			r.DomainType = verify.DomainEducational
		case strings.HasSuffix(domain, ".gov"):
			r.DomainType = verify.DomainGovernment
		default:
			r.DomainType = verify.DomainBusiness
		}
	}
	return r
}

func buildOutcome(emails []string) verify.Outcome {
	results := make([]verify.Result, 0, len(emails))
	valid := 0
	for _, e := range emails {
		r := classify(e)
		if r.Status == verify.StatusValid {
			valid++
		}
		results = append(results, r)
	}

	rate := 0.0
	if len(results) > 0 {
		rate = float64(valid) / float64(len(results)) * 100
	}
	return verify.Outcome{
		Summary: verify.Summary{
			TotalProcessed:        len(results),
			Valid:                 valid,
			ValidRate:             rate,
			AverageProcessingTime: 1.25,
		},
		Results: results,
	}
}

func handle(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var emails []string
	switch req.Method {
	case "single":
		emails = []string{req.Email}
	case "bulk":
		emails = req.Emails
	case "file":
		data, err := base64.StdEncoding.DecodeString(req.FileData)
		if err != nil {
			http.Error(w, "fileData is not valid base64", http.StatusBadRequest)
			return
		}
		batch, err := normalize.NormalizeFile(data, req.FileName)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		emails = batch.Addresses
	default:
		http.Error(w, "unknown method", http.StatusBadRequest)
		return
	}

	outcome := buildOutcome(emails)

	// The real workflow has shipped several response envelopes; ?envelope=
	// selects one so clients can be tested against each shape.
	var payload any = outcome
	switch r.URL.Query().Get("envelope") {
	case "array":
		payload = []map[string]any{{"json": outcome}}
	case "data":
		payload = map[string]any{"data": outcome}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

func main() {
	addr := flag.String("addr", ":9090", "listen address")
	flag.Parse()

	http.HandleFunc("/webhook/verify", handle)
	log.Printf("stub workflow listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}
