package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchCatalogue Phase = iota
	WriteCache
	ExportMovies
	DownloadPosters
)

func (p Phase) String() string {
	switch p {
	case FetchCatalogue:
		return "fetch_catalogue"
	case WriteCache:
		return "write_cache"
	case ExportMovies:
		return "export_movies"
	case DownloadPosters:
		return "download_posters"
	default:
		return ""
	}
}

func fetchCatalogueUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCatalogue,
		Step:    step,
		Total:   total,
		Message: "Fetching catalogue from the movie service...",
	}
}

func fetchedCatalogueUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCatalogue,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetched %d movies", count),
	}
}

func writeCacheUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteCache,
		Step:    step,
		Total:   total,
		Message: "Writing catalogue snapshot to the local cache...",
	}
}

func exportMoviesUpdate(step, total int, format string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportMovies,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Exporting %d movies as %s...", total, format),
	}
}

func posterQueuedUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadPosters,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Downloading poster: %s...", step, total, title),
	}
}

func posterCompletedUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadPosters,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, title),
	}
}

func posterFailedUpdate(step, total int, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadPosters,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, title, err),
	}
}
