package js

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const selectorMarkup = `<div id="outer" class="box">
	<p class="note">one</p>
	<div id="inner" class="box"><p id="deep" class="note big">two</p></div>
</div>
<p id="last">three</p>`

func TestQuerySelector(t *testing.T) {
	e, _ := newEngine(t, selectorMarkup)
	run(t, e, `
		var el = document.querySelector("p.note");
		if (el === null || el.textContent !== "one") throw new Error("first p.note not found");
		if (document.querySelector("#deep") !== document.getElementById("deep")) throw new Error("id lookup");
		if (document.querySelector("body").tagName !== "BODY") throw new Error("root is searched");
		if (document.querySelector("span") !== null) throw new Error("expected null");
	`)
}

func TestQuerySelectorAll(t *testing.T) {
	e, _ := newEngine(t, selectorMarkup)
	run(t, e, `
		var all = document.querySelectorAll(".note");
		if (all.length !== 2) throw new Error(".note count = " + all.length);
		var grouped = document.querySelectorAll("#last, .big");
		if (grouped.length !== 2) throw new Error("group count = " + grouped.length);
		if (grouped[0].id !== "deep") throw new Error("results keep document order");
		var child = document.querySelectorAll("#outer > p");
		if (child.length !== 1) throw new Error("child combinator count = " + child.length);
	`)
}

func TestElementQuerySelector(t *testing.T) {
	e, _ := newEngine(t, selectorMarkup)
	run(t, e, `
		var inner = document.getElementById("inner");
		if (inner.querySelector(".note").id !== "deep") throw new Error("scoped lookup");
		if (inner.querySelectorAll(".box").length !== 0) throw new Error("the element itself is excluded");
		if (document.getElementById("outer").querySelectorAll("p").length !== 2) throw new Error("descendants");
	`)
}

func TestMatchesAndClosest(t *testing.T) {
	e, _ := newEngine(t, selectorMarkup)
	run(t, e, `
		var deep = document.getElementById("deep");
		if (!deep.matches(".note.big")) throw new Error("matches compound");
		if (deep.matches("div")) throw new Error("matches wrong tag");
		if (deep.closest(".box").id !== "inner") throw new Error("nearest .box");
		if (deep.closest("#outer").id !== "outer") throw new Error("ancestor by id");
		if (deep.closest("p") !== deep) throw new Error("closest includes self");
		if (deep.closest("span") !== null) throw new Error("expected null");
	`)
}

func TestInvalidSelectorThrows(t *testing.T) {
	e, _ := newEngine(t, selectorMarkup)
	err := e.Run(`document.querySelector("> p")`)
	assert.ErrorContains(t, err, "not a valid selector")
}
