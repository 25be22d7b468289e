package document

import (
	"encoding/json"
	"fmt"
)

type transcriptDoc struct {
	Title    string              `json:"title"`
	Segments []transcriptSegment `json:"segments"`
}

// transcriptSegment carries either start_time/end_time or start/duration.
type transcriptSegment struct {
	Text      string   `json:"text"`
	Start     *float64 `json:"start"`
	Duration  *float64 `json:"duration"`
	StartTime *float64 `json:"start_time"`
	EndTime   *float64 `json:"end_time"`
	Chapter   string   `json:"chapter"`
}

func (s transcriptSegment) bounds() (start, end float64, ok bool) {
	switch {
	case s.StartTime != nil && s.EndTime != nil:
		return *s.StartTime, *s.EndTime, true
	case s.Start != nil && s.Duration != nil:
		return *s.Start, *s.Start + *s.Duration, true
	case s.Start != nil:
		return *s.Start, *s.Start, true
	}
	return 0, 0, false
}

// walkTranscript rejects a transcript when any segment has no usable timing.
func walkTranscript(data []byte, w *walker) error {
	var doc transcriptDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	w.doc.Title = doc.Title
	for i, s := range doc.Segments {
		start, end, ok := s.bounds()
		if !ok || end < start {
			return fmt.Errorf("segment %d has no valid timing", i)
		}
		w.addSegment(start, end, s.Text, s.Chapter)
	}
	return nil
}
