package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
)

const defaultBaseURL = "https://menus.5scheduler.io/v1"

// ErrNoMenu is returned when a school publishes no menu
var ErrNoMenu = errors.New("no menu available for this school")

// DiningSchools are the schools that run dining halls
var DiningSchools = []course.School{course.ClaremontMckenna, course.Pitzer, course.Pomona, course.HarveyMudd, course.Scripps}

// Client handles HTTP requests to the menu API
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient creates a new API client for baseURL, or the default when empty
func NewClient(baseURL, userAgent string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: userAgent,
	}
}

// FetchMenu retrieves the upcoming menus for one school
func (c *Client) FetchMenu(ctx context.Context, school course.School) (*SchoolMenu, error) {
	url := fmt.Sprintf("%s/menus/%s", c.baseURL, school.Code())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch menu: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoMenu
	} else if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var menu SchoolMenu
	if err := json.NewDecoder(resp.Body).Decode(&menu); err != nil {
		return nil, fmt.Errorf("failed to decode JSON response: %w", err)
	}

	menu.School = school
	tidy(&menu)
	return &menu, nil
}

// FetchMenus retrieves every dining school's menu. Schools without a menu are
// skipped; any other failure aborts the fetch.
func (c *Client) FetchMenus(ctx context.Context) ([]SchoolMenu, error) {
	var menus []SchoolMenu
	for _, school := range DiningSchools {
		m, err := c.FetchMenu(ctx, school)
		if errors.Is(err, ErrNoMenu) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", school, err)
		}
		menus = append(menus, *m)
	}
	return menus, nil
}

// tidy title-cases station names the feed sends in lower case
func tidy(m *SchoolMenu) {
	caser := cases.Title(language.English)
	for i := range m.Cafes {
		for j := range m.Cafes[i].DayMenus {
			for k := range m.Cafes[i].DayMenus[j].Menus {
				stations := m.Cafes[i].DayMenus[j].Menus[k].Stations
				for s := range stations {
					name := strings.TrimSpace(stations[s].Name)
					if name == strings.ToLower(name) {
						name = caser.String(name)
					}
					stations[s].Name = name
				}
			}
		}
	}
}
