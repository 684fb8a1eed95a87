package feed

import "github.com/okian/census/internal/domain/city"

// Virginia returns twelve Virginia cities with their census populations,
// most populous first.
func Virginia() []city.Record {
	return []city.Record{
		city.New("Virginia Beach", "VA", 447021),
		city.New("Norfolk", "VA", 245782),
		city.New("Chesapeake", "VA", 228417),
		city.New("Richmond", "VA", 210309),
		city.New("Newport News", "VA", 180726),
		city.New("Alexandria", "VA", 146294),
		city.New("Hampton", "VA", 136836),
		city.New("Roanoke", "VA", 97469),
		city.New("Portsmouth", "VA", 96470),
		city.New("Suffolk", "VA", 85181),
		city.New("Lynchburg", "VA", 77113),
		city.New("Harrisonburg", "VA", 50981),
	}
}
