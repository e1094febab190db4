package api

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/sh44ni/netkitd/core"
)

func jsonResponse(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *Server) livePayload() map[string]interface{} {
	live := s.monitor.Live()
	return map[string]interface{}{
		"down_bps":     live.DownBps,
		"up_bps":       live.UpBps,
		"down_h":       core.HumanRate(live.DownBps),
		"up_h":         core.HumanRate(live.UpBps),
		"total_down":   live.TotalDown,
		"total_up":     live.TotalUp,
		"total_down_h": core.HumanBytes(live.TotalDown),
		"total_up_h":   core.HumanBytes(live.TotalUp),
		"ts":           time.Now().Unix(),
	}
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, s.livePayload())
}

// The SSID itself comes from platform glue that lives outside this daemon;
// the hostname is close enough for the dashboard header.
func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	name, err := os.Hostname()
	if err != nil || name == "" {
		name = "Unknown Network"
	}
	jsonResponse(w, map[string]interface{}{
		"ssid":      name,
		"status":    "connected",
		"dot_color": "#10b981",
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	rangeKey, hours, granularity := core.ResolveRange(r.URL.Query().Get("r"))
	records := s.monitor.History(hours)
	data := core.Aggregate(records, granularity, time.Now())
	jsonResponse(w, map[string]interface{}{
		"range": rangeKey,
		"data":  data,
		"count": len(data),
	})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	hours := 24
	if h := r.URL.Query().Get("hours"); h != "" {
		if v, err := strconv.Atoi(h); err == nil && v > 0 {
			hours = v
		}
	}
	records := s.monitor.History(hours)
	jsonResponse(w, map[string]interface{}{
		"hours": hours,
		"data":  records,
		"count": len(records),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rangeKey, hours, _ := core.ResolveRange(r.URL.Query().Get("r"))
	totals := s.monitor.Totals(hours)
	live := s.monitor.Live()

	jsonResponse(w, map[string]interface{}{
		"range": rangeKey,
		"totals": map[string]interface{}{
			"down":   totals.TotalDown,
			"up":     totals.TotalUp,
			"down_h": core.HumanBytes(totals.TotalDown),
			"up_h":   core.HumanBytes(totals.TotalUp),
		},
		"current": map[string]interface{}{
			"down_bps": live.DownBps,
			"up_bps":   live.UpBps,
			"down_h":   core.HumanRate(live.DownBps),
			"up_h":     core.HumanRate(live.UpBps),
		},
		"peak": map[string]interface{}{
			"down":   totals.PeakDown,
			"up":     totals.PeakUp,
			"down_h": core.HumanRate(totals.PeakDown),
			"up_h":   core.HumanRate(totals.PeakUp),
		},
	})
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		http.Error(w, "Archive not available", http.StatusServiceUnavailable)
		return
	}
	rangeKey, hours, _ := core.ResolveRange(r.URL.Query().Get("r"))
	now := time.Now()
	buckets, err := s.archive.Range(now.Add(-time.Duration(hours)*time.Hour), now)
	if err != nil {
		http.Error(w, "Archive query failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]interface{}{
		"range": rangeKey,
		"data":  buckets,
		"count": len(buckets),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"instance_id":    s.instanceID,
		"started":        s.started.Format(time.RFC3339),
		"uptime_sec":     int64(time.Since(s.started).Seconds()),
		"store_records":  s.monitor.StoreLen(),
		"sampler_paused": s.sampler.IsPaused(),
		"ws_clients":     s.hub.ClientCount(),
	}

	if s.archive != nil {
		if n, err := s.archive.Count(); err == nil {
			status["archive_buckets"] = n
		}
	}
	if up, err := host.Uptime(); err == nil {
		status["host_uptime_sec"] = up
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		status["mem_used_percent"] = vm.UsedPercent
	}

	jsonResponse(w, status)
}

func (s *Server) handlePauseSampler(w http.ResponseWriter, r *http.Request) {
	s.sampler.SetPaused(true)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleResumeSampler(w http.ResponseWriter, r *http.Request) {
	s.sampler.SetPaused(false)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handlePruneNow(w http.ResponseWriter, r *http.Request) {
	days := s.config.RetentionDays
	if days <= 0 {
		days = 365
	}
	var payload map[string]int
	if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
		if v, ok := payload["days"]; ok && v > 0 {
			days = v
		}
	}
	cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
	removed := s.scheduler.SweepOlderThan(cutoff)
	jsonResponse(w, map[string]interface{}{
		"removed": removed,
		"cutoff":  cutoff.Format(time.RFC3339),
	})
}
