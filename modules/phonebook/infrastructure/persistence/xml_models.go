package persistence

import "encoding/xml"

// Wire model of the remote phonebook file the phone downloads. Group display
// names carry a two-digit order prefix ("01. Sales") because the device sorts
// menus lexically by name.
type xmlPhonebook struct {
	XMLName xml.Name  `xml:"YealinkIPPhoneBook"`
	Menus   []xmlMenu `xml:"Menu"`
}

type xmlMenu struct {
	Name  string    `xml:"Name,attr"`
	Units []xmlUnit `xml:"Unit"`
}

type xmlUnit struct {
	Name   string `xml:"Name,attr"`
	Photo  string `xml:"default_photo,attr"`
	Phone1 string `xml:"Phone1,attr"`
	Phone2 string `xml:"Phone2,attr"`
	Phone3 string `xml:"Phone3,attr"`
}
