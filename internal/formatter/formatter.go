// package formatter provides functions to export movie lists to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/martishin/movie-search-service/internal/models"
	"github.com/martishin/movie-search-service/internal/shared"
)

// ExportToCSV converts a movie list to CSV format with columns: ID, Title, Release Date, Runtime, MPAA Rating, Rating, Liked, Genres
func ExportToCSV(movies []models.Movie) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Release Date", "Runtime", "MPAA Rating", "Rating", "Liked", "Genres"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, movie := range movies {
		record := []string{
			strconv.Itoa(movie.ID),
			movie.Title,
			movie.ReleaseDate.Format("2006-01-02"),
			strconv.Itoa(movie.Runtime),
			movie.MPAARating,
			strconv.FormatFloat(movie.UserRating, 'f', 1, 64),
			strconv.FormatBool(movie.IsLiked),
			strings.Join(movie.GenreNames(), "; "),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a movie list to Markdown format under the given heading
func ExportToMarkdown(movies []models.Movie, heading string) ([]byte, error) {
	var buf bytes.Buffer

	if heading == "" {
		heading = "Movies"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", heading))
	buf.WriteString(fmt.Sprintf("**Movies**: %d\n\n", len(movies)))

	for i, movie := range movies {
		buf.WriteString(fmt.Sprintf("%d. **%s** (%d)", i+1, movie.Title, movie.ReleaseDate.Year()))
		if movie.Runtime > 0 {
			buf.WriteString(fmt.Sprintf(" [%s]", shared.FormatRuntime(movie.Runtime)))
		}
		buf.WriteString(fmt.Sprintf(" - %.1f/5", movie.UserRating))
		if movie.IsLiked {
			buf.WriteString(" ♥")
		}
		buf.WriteString("\n")
		if genres := movie.GenreNames(); len(genres) > 0 {
			buf.WriteString(fmt.Sprintf("   %s\n", strings.Join(genres, ", ")))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a movie list to plain text format
func ExportToText(movies []models.Movie) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Movies: %d\n\n", len(movies)))

	for i, movie := range movies {
		buf.WriteString(fmt.Sprintf("%d. %s (%d) - %.1f/5\n", i+1, movie.Title, movie.ReleaseDate.Year(), movie.UserRating))
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// CSVExportResult contains the path of the file created by WriteCSVExport
type CSVExportResult struct {
	MoviesFile string
}

// WriteCSVExport exports a movie list to CSV.
//
// Defaults to "movies" as the base filename & creates {base}.csv
func WriteCSVExport(movies []models.Movie, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "movies"
	}

	csvData, err := ExportToCSV(movies)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	moviesFile := baseFilepath + ".csv"
	if err := os.WriteFile(moviesFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	return &CSVExportResult{MoviesFile: moviesFile}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
}

// WriteMarkdownExport exports a movie list to Markdown format in a dedicated directory.
//
// Directory name defaults to "movies". Creates {dir}/README.md.
func WriteMarkdownExport(movies []models.Movie, outputDir string, heading string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "movies"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	mdData, err := ExportToMarkdown(movies, heading)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a movie list to plain text format.
//
// Defaults to movies.txt as the filename.
func WriteTextExport(movies []models.Movie, filepath string) (string, error) {
	if filepath == "" {
		filepath = "movies.txt"
	}

	textData, err := ExportToText(movies)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
