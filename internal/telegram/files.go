package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/go-telegram/bot"
	"github.com/set-night/cookieai/internal/config"
	"github.com/set-night/cookieai/internal/domain"
)

// Downloader saves Telegram attachments to local files.
type Downloader struct {
	bot        *bot.Bot
	httpClient *http.Client
}

func NewDownloader(b *bot.Bot) *Downloader {
	return &Downloader{
		bot:        b,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
	}
}

func (d *Downloader) Download(ctx context.Context, ref domain.AttachmentRef, destPath string) error {
	file, err := d.bot.GetFile(ctx, &bot.GetFileParams{FileID: ref.FileID})
	if err != nil {
		return fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.bot.FileDownloadLink(file), nil)
	if err != nil {
		return fmt.Errorf("create download request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download file: unexpected status %d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create local file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("write file data: %w", err)
	}
	return out.Close()
}
