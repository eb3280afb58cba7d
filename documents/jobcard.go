package documents

import (
	"context"
	"fmt"
	"io"

	garagedocs "github.com/smartgarage/garagedocs"
	"github.com/smartgarage/garagedocs/layout"
	"github.com/smartgarage/garagedocs/media"
	"github.com/smartgarage/garagedocs/money"
)

// TitleJobCard is the default job card title.
const TitleJobCard = "Job Card"

// Photo is a vehicle photo taken at check-in.
type Photo struct {
	Label string `json:"label,omitempty"`
	URL   string `json:"url"`
}

// Accessory is an item left in the vehicle, with its count.
type Accessory struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// HealthGroup is one area of the vehicle health check-up.
type HealthGroup struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// JobCard is the work order opened when a vehicle checks in.
type JobCard struct {
	Title         string           `json:"title,omitempty"` // defaults to TitleJobCard
	Number        string           `json:"number"`
	Business      Business         `json:"business"`
	Sections      []layout.Section `json:"sections,omitempty"`
	CustomerState string           `json:"customerState,omitempty"`
	Concerns      []Concern        `json:"concerns,omitempty"`
	Photos        []Photo          `json:"photos,omitempty"`
	AudioURL      string           `json:"audioUrl,omitempty"`
	VideoURL      string           `json:"videoUrl,omitempty"`
	FuelLevel     string           `json:"fuelLevel,omitempty"`
	Odometer      string           `json:"odometer,omitempty"`
	Accessories   []Accessory      `json:"accessories,omitempty"`
	Checklist     []string         `json:"checklist,omitempty"` // accessories present, listed without counts
	HealthCheck   []HealthGroup    `json:"healthCheck,omitempty"`
	Remarks       []string         `json:"remarks,omitempty"` // pickup remarks
	Terms         []string         `json:"terms,omitempty"`
	Declaration   string           `json:"declaration,omitempty"`
	Watermark     string           `json:"watermark,omitempty"`
}

// Photo grid geometry.
const (
	photosPerRow = 4
	photoGap     = 8.0
	photoHeight  = 100.0
)

// placedPhoto is a photo that loaded and was registered with the document.
type placedPhoto struct {
	name  string
	label string
}

// fetchPhotos loads all photos concurrently and registers the ones that
// decode. Failed photos are logged and skipped.
func (g *Generator) fetchPhotos(ctx context.Context, doc *garagedocs.Document, photos []Photo) []placedPhoto {
	srcs := make([]string, len(photos))
	for i, p := range photos {
		srcs[i] = p.URL
	}
	var out []placedPhoto
	for i, r := range g.fetcher.FetchAll(ctx, srcs, media.DefaultParallel) {
		name := fmt.Sprintf("photo-%d", i)
		if r.Err != nil {
			g.logger.Printf("skipping image %s: %v", name, r.Err)
			continue
		}
		if g.registerImage(doc, name, r.Data) {
			out = append(out, placedPhoto{name: name, label: photos[i].Label})
		}
	}
	return out
}

// drawPhotos lays photos out photosPerRow to a row, reserving each row
// like a table row.
func drawPhotos(doc *garagedocs.Document, f layout.Flow, s layout.State, photos []placedPhoto) layout.State {
	cellW := (fullWidth - photoGap*(photosPerRow-1)) / photosPerRow
	doc.SetFont(garagedocs.Regular, bodySize)
	rowH := photoHeight + doc.LineHeight() + 10
	for i := 0; i < len(photos); i += photosPerRow {
		at, _ := f.Reserve(s, rowH)
		doc.SetFont(garagedocs.Regular, bodySize)
		doc.SetTextColor(garagedocs.Muted)
		for j, p := range photos[i:min(i+photosPerRow, len(photos))] {
			x := boxLeft + float64(j)*(cellW+photoGap)
			doc.StrokeRect(x, at.Y, cellW, photoHeight, garagedocs.Rule, 0.5)
			doc.FitImage(p.name, x+2, at.Y+2, cellW-4, photoHeight-4)
			if p.label != "" {
				doc.TextAlign(x, at.Y+photoHeight+3, cellW, p.label, "C")
			}
		}
		s = at.Down(rowH)
	}
	doc.SetTextColor(garagedocs.Black)
	return s
}

// linkBox draws a shaded box with a label and a clickable link text on the
// right.
func linkBox(doc *garagedocs.Document, x, y, w float64, label, text, url string) {
	doc.FillRect(x, y, w, barHeight, garagedocs.HeaderBG)
	doc.SetFont(garagedocs.SemiBold, bodySize)
	ty := y + (barHeight-doc.LineHeight())/2
	doc.SetTextColor(garagedocs.Ink)
	doc.Text(x+5, ty, label)
	lw := doc.Width(label)
	doc.SetTextColor(garagedocs.Muted)
	if url == "" {
		doc.Text(x+lw+8, ty, "(Not available)")
		return
	}
	doc.Text(x+lw+8, ty, "(Click on link)")
	tw := doc.Width(text)
	tx := x + w - 10 - tw
	doc.SetTextColor(garagedocs.Link)
	doc.Text(tx, ty, text)
	doc.Line(tx, ty+doc.LineHeight()-1, tx+tw, ty+doc.LineHeight()-1, garagedocs.Link, 0.5)
	doc.Link(tx, ty, tw, doc.LineHeight(), url)
}

// valueBox draws a shaded box with a label followed by a highlighted value.
func valueBox(doc *garagedocs.Document, x, y, w float64, label, value string) {
	doc.FillRect(x, y, w, barHeight, garagedocs.HeaderBG)
	doc.SetFont(garagedocs.SemiBold, bodySize)
	ty := y + (barHeight-doc.LineHeight())/2
	doc.SetTextColor(garagedocs.Ink)
	doc.Text(x+5, ty, label)
	doc.SetTextColor(garagedocs.Accent)
	doc.Text(x+doc.Width(label)+8, ty, orDash(value))
}

// JobCard renders jc to w. Vehicle photos are fetched concurrently before
// layout starts; photos that fail to load are left out.
func (g *Generator) JobCard(ctx context.Context, w io.Writer, jc *JobCard) error {
	if jc == nil {
		return invalid("job card")
	}
	if err := checkSections("job card", jc.Sections); err != nil {
		return err
	}
	title := jc.Title
	if title == "" {
		title = TitleJobCard
	}

	opts := []garagedocs.Option{garagedocs.WithTitle(title+" "+jc.Number, jc.Business.Name)}
	if jc.Watermark != "" {
		opts = append(opts, garagedocs.WithWatermark(jc.Watermark))
	}
	doc, err := g.newDocument(opts...)
	if err != nil {
		return err
	}
	if err := registerIcons(doc); err != nil {
		return err
	}
	logo := g.loadImage(ctx, doc, logoImage, jc.Business.Logo)
	photos := g.fetchPhotos(ctx, doc, jc.Photos)

	// Only the header repeats; the info columns appear on the first page.
	fr := &frame{doc: doc, header: header{biz: jc.Business, title: title, number: jc.Number, logo: logo}}
	s := fr.first()
	f := fr.flow()
	if len(jc.Sections) > 0 {
		s = s.Continue(drawInfo(doc, jc.Sections, s.Y+10) + 10)
	}
	symbol := doc.Currency()

	t := concernTable(doc, itemSchema("Spare/Service Description", symbol), jc.Concerns, nil)
	if s, err = t.Render(f, s); err != nil {
		return err
	}
	all := flatten(jc.Concerns, nil)
	spares, services := partition(all)
	totals := money.Compute(billable(all), money.SupplyOf(jc.Business.State, jc.CustomerState))
	s = rightLine(doc, f, s, fmt.Sprintf("Spare Total : %s    Labour Total : %s",
		money.Format(subtotal(spares), symbol), money.Format(subtotal(services), symbol)))
	s = amountBox(doc, f, s.Down(4), money.Words(totals.Grand), "Total : "+money.Format(totals.Grand, symbol))

	if len(photos) > 0 {
		s = bar(doc, f, s.Down(8), "Images -", photoHeight)
		s = drawPhotos(doc, f, s, photos)
	}

	half := (fullWidth - 10) / 2
	at, _ := f.Reserve(s.Down(8), 2*barHeight+8)
	linkBox(doc, boxLeft, at.Y, half, "Driver Concern Audio", "Audio Link", jc.AudioURL)
	linkBox(doc, boxLeft+half+10, at.Y, half, "360 Degree Video", "Video Link", jc.VideoURL)
	valueBox(doc, boxLeft, at.Y+barHeight+8, half, "Fuel Quantity -", jc.FuelLevel)
	valueBox(doc, boxLeft+half+10, at.Y+barHeight+8, half, "Odometer -", jc.Odometer)
	s = at.Down(2*barHeight + 8)

	if len(jc.Accessories) > 0 || len(jc.Checklist) > 0 {
		s = bar(doc, f, s.Down(8), "Accessories", 20)
		counted := make([]string, len(jc.Accessories))
		for i, a := range jc.Accessories {
			counted[i] = fmt.Sprintf("%s : %d", a.Name, a.Qty)
		}
		s = bulletGrid(doc, f, s, counted, 4, garagedocs.Ink)
		s = bulletGrid(doc, f, s, jc.Checklist, 4, garagedocs.Muted)
	}

	if len(jc.HealthCheck) > 0 {
		s = bar(doc, f, s.Down(8), "Vehicle Health Check-up", 20)
		for _, hg := range jc.HealthCheck {
			if len(hg.Items) == 0 {
				continue
			}
			doc.SetFont(garagedocs.SemiBold, bodySize)
			at, _ := f.Reserve(s, 2*doc.LineHeight()+6)
			doc.SetFont(garagedocs.SemiBold, bodySize)
			doc.SetTextColor(garagedocs.Good)
			doc.Text(left, at.Y, hg.Name)
			s = bulletGrid(doc, f, at.Down(doc.LineHeight()+3), hg.Items, 4, garagedocs.Ink)
		}
	}

	if len(jc.Remarks) > 0 {
		s = bar(doc, f, s.Down(8), "Pickup Remark", 20)
		s = bulletGrid(doc, f, s, jc.Remarks, 2, garagedocs.Ink)
	}

	drawClosing(doc, f, s.Down(10), closing{terms: jc.Terms, declaration: jc.Declaration, signer: jc.Business.Name})
	return finish(doc, w)
}
