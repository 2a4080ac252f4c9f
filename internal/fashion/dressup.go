package fashion

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Slot names a garment position in the dress-up pipeline.
type Slot string

const (
	SlotBottom      Slot = "bottom"
	SlotTop         Slot = "top"
	SlotShoes       Slot = "shoes"
	SlotAccessories Slot = "accessories"
)

// slotOrder is the fixed composition order. Bottoms go on first so that
// tops layer over waistbands; accessories always render last. Callers may
// supply garments in any order, the pipeline ignores it.
func slotOrder() []Slot {
	return []Slot{SlotBottom, SlotTop, SlotShoes, SlotAccessories}
}

// DressUpStep records one completed composition pass.
type DressUpStep struct {
	Slot   Slot   `json:"slot"`
	JobID  string `json:"job_id"`
	Output string `json:"output"`
}

// DressUpResult is the outcome of a full dress-up run.
type DressUpResult struct {
	// Image is the final composed image URL, the output of the last step.
	Image string        `json:"image"`
	Steps []DressUpStep `json:"steps"`
}

// PrepareAvatar runs the background-replacement model over a person photo
// and returns the cleaned avatar image URL.
func (c *Client) PrepareAvatar(ctx context.Context, photo []byte) (string, error) {
	out, err := c.RunAndWait(ctx, ModelBackgroundReplace, map[string]string{
		"image": DataURI(photo),
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// DressUp composes garments onto a base avatar image one at a time, in the
// fixed slot order. Each step feeds its output into the next as the new
// base; empty slots are skipped. A failing step aborts the run and nothing
// partial is returned.
func (c *Client) DressUp(ctx context.Context, base string, garments map[Slot]string) (*DressUpResult, error) {
	if base == "" {
		return nil, wrapError("dressUp", ModelGarmentCompose, "", fmt.Errorf("missing base image"))
	}

	result := &DressUpResult{Image: base}

	for _, slot := range slotOrder() {
		garment, ok := garments[slot]
		if ok && garment == "" {
			ok = false
		}
		if !ok {
			continue
		}

		jobID, err := c.Run(ctx, ModelGarmentCompose, map[string]string{
			"base":    result.Image,
			"garment": garment,
		})
		if err != nil {
			return nil, err
		}

		out, err := c.WaitForOutput(ctx, jobID)
		if err != nil {
			c.logger.Warn("dress-up step failed",
				"slot", slot,
				"job_id", jobID,
				"error", err,
			)
			return nil, err
		}

		result.Image = out
		result.Steps = append(result.Steps, DressUpStep{
			Slot:   slot,
			JobID:  jobID,
			Output: out,
		})
	}

	if len(result.Steps) == 0 {
		return nil, wrapError("dressUp", ModelGarmentCompose, "", fmt.Errorf("no garments to compose"))
	}

	c.logger.Info("dress-up complete", "steps", len(result.Steps))
	return result, nil
}

// Download fetches a generated image by URL.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, wrapError("download", "", "", fmt.Errorf("create request: %w", err))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, wrapError("download", "", "", fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, wrapError("download", "", "", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	return io.ReadAll(resp.Body)
}
