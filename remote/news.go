// ABOUTME: Cached headline fetch from the school's configured RSS or Atom feed
// ABOUTME: The parsed headline list is what gets cached, not the raw XML

package remote

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"time"

	"github.com/harperreed/marquee/models"
)

const (
	// newsTTL keeps headlines for half an hour.
	newsTTL = 30 * time.Minute

	// maxHeadlines caps what one ticker rotation can show.
	maxHeadlines = 10
)

// NewsClient fetches feed headlines through the cache ladder.
type NewsClient struct {
	fetcher *Fetcher
}

// NewNewsClient returns a client over the shared fetcher.
func NewNewsClient(f *Fetcher) *NewsClient {
	return &NewsClient{fetcher: f}
}

type rssFeed struct {
	Channel struct {
		Items []struct {
			Title   string `xml:"title"`
			Link    string `xml:"link"`
			PubDate string `xml:"pubDate"`
		} `xml:"item"`
	} `xml:"channel"`
}

type atomFeed struct {
	Entries []struct {
		Title string `xml:"title"`
		Links []struct {
			Href string `xml:"href,attr"`
		} `xml:"link"`
		Updated string `xml:"updated"`
	} `xml:"entry"`
}

// Headlines returns up to ten items from feedURL. An empty slice with
// StatusMiss means the feed is unreachable and nothing is cached.
func (n *NewsClient) Headlines(ctx context.Context, feedURL string) ([]models.Headline, Status) {
	if feedURL == "" {
		return nil, StatusMiss
	}

	var headlines []models.Headline
	status := n.fetcher.fetch(ctx, "news:"+feedURL, feedURL, newsTTL, decodeFeed, &headlines)
	if status == StatusMiss {
		return nil, status
	}
	return headlines, status
}

// decodeFeed parses RSS first, then Atom, and caches the resulting
// headline list.
func decodeFeed(body []byte) (json.RawMessage, error) {
	var headlines []models.Headline

	var rss rssFeed
	if err := xml.Unmarshal(body, &rss); err == nil && len(rss.Channel.Items) > 0 {
		for _, item := range rss.Channel.Items {
			headlines = append(headlines, models.Headline{
				Title:     item.Title,
				Link:      item.Link,
				Published: item.PubDate,
			})
		}
	} else {
		var atom atomFeed
		if err := xml.Unmarshal(body, &atom); err != nil {
			return nil, err
		}
		for _, entry := range atom.Entries {
			h := models.Headline{Title: entry.Title, Published: entry.Updated}
			if len(entry.Links) > 0 {
				h.Link = entry.Links[0].Href
			}
			headlines = append(headlines, h)
		}
	}

	if len(headlines) == 0 {
		return nil, errors.New("feed has no recognizable items")
	}
	if len(headlines) > maxHeadlines {
		headlines = headlines[:maxHeadlines]
	}
	return json.Marshal(headlines)
}
