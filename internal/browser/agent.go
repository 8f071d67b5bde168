// internal/browser/agent.go
package browser

import "strings"

// emitBinding is the CDP binding name the page agent reports input events
// through.
const emitBinding = "__lensEmit"

// agentScript builds the page agent injected into every document. The agent
// owns the in-page half of the inspector: the element registry the walker's
// node ids point into, the overlay surfaces the renderer draws on, and the
// input listeners that feed the event loop.
//
// marker tags every overlay node so the walker and hit tester can exclude
// the inspector's own DOM from inspection.
func agentScript(marker string) string {
	return strings.ReplaceAll(agentTemplate, "__MARKER__", marker)
}

const agentTemplate = `(function() {
	if (window.__lensAgent) { return; }

	const MARKER = "__MARKER__";
	const ATTR = "data-lens-overlay";
	const LAYERS = ["highlight", "measure", "tooltip", "skim"];

	let nextId = 1;
	const byId = new Map();
	const idOf = new WeakMap();

	function intern(el) {
		let id = idOf.get(el);
		if (!id) {
			id = nextId++;
			idOf.set(el, id);
			byId.set(id, el);
		}
		return id;
	}

	function lookup(id) {
		const el = byId.get(id);
		if (!el || !el.isConnected) { return null; }
		return el;
	}

	function overlayOwned(el) {
		return !!(el.closest && el.closest("[" + ATTR + "]"));
	}

	function hasDirectText(el) {
		for (const child of el.childNodes) {
			if (child.nodeType === Node.TEXT_NODE && child.textContent.trim() !== "") {
				return true;
			}
		}
		return false;
	}

	function describe(el) {
		const r = el.getBoundingClientRect();
		const style = getComputedStyle(el);
		return {
			node: intern(el),
			tag: el.tagName.toLowerCase(),
			left: r.left, top: r.top, width: r.width, height: r.height,
			hidden: style.display === "none" || style.visibility === "hidden",
			hasText: hasDirectText(el),
			overlayOwned: overlayOwned(el)
		};
	}

	// --- Overlay surfaces ---

	let root = null;
	const layerEls = {};

	function ensureRoot() {
		if (root && root.isConnected) { return; }
		root = document.createElement("div");
		root.setAttribute(ATTR, MARKER);
		root.style.cssText =
			"position:absolute;left:0;top:0;width:0;height:0;" +
			"pointer-events:none;z-index:2147483646;";
		for (const name of LAYERS) {
			const layer = document.createElement("div");
			layer.setAttribute(ATTR, MARKER);
			layer.setAttribute("data-lens-layer", name);
			layer.style.cssText = "position:absolute;left:0;top:0;pointer-events:none;";
			layerEls[name] = layer;
			root.appendChild(layer);
		}
		document.documentElement.appendChild(root);
	}

	const LAYER_COLORS = {
		highlight: "rgba(77, 144, 254, 0.9)",
		measure: "rgba(244, 67, 54, 0.9)",
		tooltip: "rgba(33, 33, 33, 0.95)",
		skim: "rgba(76, 175, 80, 0.9)"
	};

	function drawRect(layer, cmd, color) {
		const div = document.createElement("div");
		div.setAttribute(ATTR, MARKER);
		div.style.cssText =
			"position:absolute;box-sizing:border-box;" +
			"left:" + cmd.left + "px;top:" + cmd.top + "px;" +
			"width:" + cmd.width + "px;height:" + cmd.height + "px;" +
			(cmd.op === "line"
				? "background:" + color + ";"
				: "border:1.5px solid " + color + ";") +
			(cmd.dashed ? "background:repeating-linear-gradient(to right," +
				color + " 0 4px,transparent 4px 8px);" : "");
		layer.appendChild(div);
	}

	function drawLabel(layer, cmd, color) {
		const div = document.createElement("div");
		div.setAttribute(ATTR, MARKER);
		div.style.cssText =
			"position:absolute;left:" + cmd.left + "px;top:" + cmd.top + "px;" +
			"font:11px/1.4 monospace;color:#fff;background:" + color + ";" +
			"padding:1px 4px;border-radius:2px;white-space:nowrap;";
		if (cmd.swatch) {
			const sw = document.createElement("span");
			sw.setAttribute(ATTR, MARKER);
			sw.style.cssText =
				"display:inline-block;width:8px;height:8px;margin-right:4px;" +
				"border:1px solid #fff;background:" + cmd.swatch + ";";
			div.appendChild(sw);
		}
		div.appendChild(document.createTextNode(cmd.text || ""));
		layer.appendChild(div);
	}

	function apply(commands) {
		ensureRoot();
		for (const cmd of commands) {
			const layer = layerEls[cmd.layer];
			if (!layer) { continue; }
			const color = LAYER_COLORS[cmd.layer];
			switch (cmd.op) {
			case "clear":
				layer.textContent = "";
				break;
			case "rect":
			case "line":
				drawRect(layer, cmd, color);
				break;
			case "label":
				drawLabel(layer, cmd, color);
				break;
			}
		}
	}

	// --- Input reporting ---

	function emit(ev) {
		if (window.__lensEmit) {
			window.__lensEmit(JSON.stringify(ev));
		}
	}

	document.addEventListener("pointermove", function(e) {
		emit({kind: "pointer", x: e.clientX, y: e.clientY});
	}, {passive: true, capture: true});

	document.addEventListener("click", function(e) {
		emit({kind: "click", x: e.clientX, y: e.clientY, alt: e.altKey});
	}, {passive: true, capture: true});

	document.addEventListener("keydown", function(e) {
		emit({kind: "key", key: e.key});
	}, {passive: true, capture: true});

	window.addEventListener("scroll", function() {
		emit({kind: "scroll", x: window.scrollX, y: window.scrollY});
	}, {passive: true, capture: true});

	window.addEventListener("resize", function() {
		emit({kind: "resize", width: window.innerWidth, height: window.innerHeight});
	}, {passive: true});

	// --- Queries ---

	window.__lensAgent = {
		apply: apply,

		rect: function(id) {
			const el = lookup(id);
			return el ? describe(el) : null;
		},

		hitTest: function(x, y) {
			const els = document.elementsFromPoint(x, y);
			for (const el of els) {
				if (!overlayOwned(el)) { return intern(el); }
			}
			return 0;
		},

		scroll: function() {
			return {x: window.scrollX, y: window.scrollY};
		},

		viewport: function() {
			return {width: window.innerWidth, height: window.innerHeight};
		},

		visible: function(max) {
			const out = [];
			const all = document.body ? document.body.querySelectorAll("*") : [];
			for (const el of all) {
				if (out.length >= max) { break; }
				if (overlayOwned(el)) { continue; }
				const r = el.getBoundingClientRect();
				if (r.width <= 0 || r.height <= 0) { continue; }
				if (r.bottom < 0 || r.right < 0 ||
					r.top > window.innerHeight || r.left > window.innerWidth) {
					continue;
				}
				out.push(describe(el));
			}
			return out;
		},

		ancestors: function(id, maxDepth) {
			const el = lookup(id);
			if (!el) { return []; }
			const out = [];
			let cur = el.parentElement;
			while (cur && out.length < maxDepth) {
				out.push(describe(cur));
				cur = cur.parentElement;
			}
			return out;
		},

		// Shallow markup: just the element's own open/close tags, no
		// descendants. Cheap enough to fetch per ancestor.
		shallowHTML: function(id) {
			const el = lookup(id);
			return el ? el.cloneNode(false).outerHTML : "";
		},

		computed: function(id, prop) {
			const el = lookup(id);
			return el ? getComputedStyle(el).getPropertyValue(prop) : "";
		},

		authored: function(id, prop) {
			const el = lookup(id);
			return el ? el.style.getPropertyValue(prop) : "";
		}
	};
})();`
