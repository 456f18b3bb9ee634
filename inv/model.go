// Package inv declares basic types used for warehouse inventory requests.
package inv

import (
  "bytes"
  "encoding/json"
  "errors"
  "github.com/keep94/appcommon/passwords"
  "strconv"
  "time"
)

// A ShipmentType classifies how goods arrive at a site.
type ShipmentType int

const (
  // UnknownShipment means the shipment type has not been chosen yet.
  UnknownShipment ShipmentType = 0
  // InternalShipment is a transfer between sites of the same organisation.
  InternalShipment ShipmentType = 11
  // Donation is goods given by an outside party.
  Donation ShipmentType = 32
  // Purchase is goods bought from a supplier.
  Purchase ShipmentType = 34
)

const (
  // Represents full control. This is always first and zero.
  AllPermission Permission = iota
  // Represents read-only permission.
  ReadPermission
  // Represents no permissions. This is always last. New permissions must
  // be inserted right before this one.
  NonePermission
)

var (
  malformedRecvSitesError = errors.New("inv: Malformed receive sites list.")
)

func (s ShipmentType) String() string {
  switch s {
    case UnknownShipment:
      return ""
    case InternalShipment:
      return "Internal Shipment"
    case Donation:
      return "Donation"
    case Purchase:
      return "Purchase"
    default:
      return "Unknown"
  }
}

// ToString converts this value to the string form used on forms and on
// the wire e.g "11".
func (s ShipmentType) ToString() string {
  return strconv.Itoa(int(s))
}

// ToShipmentType converts a string that ToString returned back to a
// ShipmentType. On success returns the shipment type and true. If s does
// not name a shipment type, returns UnknownShipment and false.
func ToShipmentType(s string) (ShipmentType, bool) {
  x, err := strconv.Atoi(s)
  if err != nil {
    return UnknownShipment, false
  }
  switch t := ShipmentType(x); t {
    case UnknownShipment, InternalShipment, Donation, Purchase:
      return t, true
  }
  return UnknownShipment, false
}

// A Permission represents what a user may do in the warehouse app.
type Permission int

// Site represents a physical location such as a warehouse or facility that
// is eligible as a shipment source or destination.
type Site struct {
  Id int64
  Name string
  // Obsolete sites are kept for history but take no new shipments.
  Obsolete bool
}

// SiteList is an ordered list of sites.
type SiteList []Site

// Req represents a logistics request for a transfer of goods.
type Req struct {
  Id int64
  // SiteId is the site that placed the request and that receives the goods.
  SiteId int64
  Purpose string
  // Open is true until the request is fulfilled or canceled.
  Open bool
}

// RecvSites holds the candidate source and destination sites for a request.
// Its wire form is a two element JSON array. Each element is an ordered
// list of [id, label] pairs with ids written as strings:
// [[["1","Warehouse A"]], [["2","Warehouse B"],["3","Warehouse C"]]]
type RecvSites struct {
  From SiteList
  To SiteList
}

func (r RecvSites) MarshalJSON() ([]byte, error) {
  return json.Marshal([2][][2]string{sitePairs(r.From), sitePairs(r.To)})
}

func (r *RecvSites) UnmarshalJSON(b []byte) error {
  decoder := json.NewDecoder(bytes.NewReader(b))
  decoder.UseNumber()
  var lists [][][2]interface{}
  if err := decoder.Decode(&lists); err != nil {
    return err
  }
  if len(lists) != 2 {
    return malformedRecvSitesError
  }
  from, err := sitesFromPairs(lists[0])
  if err != nil {
    return err
  }
  to, err := sitesFromPairs(lists[1])
  if err != nil {
    return err
  }
  r.From = from
  r.To = to
  return nil
}

// User represents a warehouse operator.
type User struct {
  Id int64
  Name string
  passwords.Password
  Permission Permission
  LastLogin time.Time
}

func (p Permission) String() string {
  switch p {
    case AllPermission:
      return "All"
    case ReadPermission:
      return "Read"
    case NonePermission:
      return "None"
    default:
      return "Unknown"
  }
}

// ToInt maps a permission to an int in a way that is suitable for persistent
// storage. In particular, NonePermission ==> -1 because the actual value of
// NonePermission can change as it is always last.
func (p Permission) ToInt() int {
  if p == NonePermission {
    return -1
  }
  return int(p)
}

// ToPermission takes an int that ToInt returned and converts it back to a
// Permission. On success, returns the permission and true. If x is out of
// range, returns NonePermission and false.
func ToPermission(x int) (Permission, bool) {
  if x == -1 {
    return NonePermission, true
  }
  if x >= 0 && x < int(NonePermission) {
    return Permission(x), true
  }
  return NonePermission, false
}

func sitePairs(sites SiteList) [][2]string {
  pairs := make([][2]string, len(sites))
  for i := range sites {
    pairs[i] = [2]string{
        strconv.FormatInt(sites[i].Id, 10), sites[i].Name}
  }
  return pairs
}

func sitesFromPairs(pairs [][2]interface{}) (SiteList, error) {
  if len(pairs) == 0 {
    return nil, nil
  }
  sites := make(SiteList, len(pairs))
  for i, pair := range pairs {
    id, err := siteIdFromPair(pair[0])
    if err != nil {
      return nil, err
    }
    name, ok := pair[1].(string)
    if !ok {
      return nil, malformedRecvSitesError
    }
    sites[i] = Site{Id: id, Name: name}
  }
  return sites, nil
}

// The original backend wrote site ids sometimes as strings and sometimes
// as bare integers. Accept both.
func siteIdFromPair(v interface{}) (int64, error) {
  switch x := v.(type) {
    case string:
      return strconv.ParseInt(x, 10, 64)
    case json.Number:
      return strconv.ParseInt(x.String(), 10, 64)
  }
  return 0, malformedRecvSitesError
}
