package importer

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

const rbcRowClass = "rbc-transaction-list-transaction-new"

// ParseRBCHTML parses an RBC online-banking HTML export. Each posted
// transaction is a table row carrying the rbc row class; the date sits in
// the cell with a row- id, the description and category share the desc
// cell, and the amount is in the withdrawal or deposit cell.
func ParseRBCHTML(data []byte) (*Result, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	result := &Result{}
	line := 0
	for _, row := range findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && hasClass(n, rbcRowClass)
	}) {
		line++

		dateCell := findFirst(row, func(n *html.Node) bool {
			return isElement(n, "td") && strings.HasPrefix(attr(n, "id"), "row-")
		})
		descCell := findFirst(row, func(n *html.Node) bool {
			return isElement(n, "td") && strings.Contains(attr(n, "headers"), "desc")
		})
		amountCell := findFirst(row, func(n *html.Node) bool {
			if !isElement(n, "td") {
				return false
			}
			headers := attr(n, "headers")
			return strings.Contains(headers, "wd") || strings.Contains(headers, "dep")
		})
		if dateCell == nil || descCell == nil || amountCell == nil {
			result.skip(line, "row is missing date, description or amount cell")
			continue
		}

		date, err := parseFrenchDate(nodeText(dateCell))
		if err != nil {
			result.skip(line, err.Error())
			continue
		}
		amount, err := parseAmount(nodeText(amountCell))
		if err != nil {
			result.skip(line, "unparseable amount")
			continue
		}

		var category string
		if div := findFirst(descCell, func(n *html.Node) bool { return isElement(n, "div") }); div != nil {
			category = nodeText(div)
		}

		result.appendCandidate(line, Candidate{
			Date:         date,
			Description:  nodeText(descCell),
			Amount:       amount,
			Currency:     "CAD",
			CategoryName: category,
			BankName:     "RBC",
		})
	}
	return result, nil
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// findAll collects every node under root matching the predicate. Matched
// subtrees are not descended into, so nested matches collapse into their
// outermost node.
func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// findFirst returns the first descendant of root matching the predicate,
// excluding root itself.
func findFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if match(c) {
			return c
		}
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

// nodeText concatenates the text content of a subtree, collapsing
// whitespace runs.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
