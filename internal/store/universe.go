package store

import "market-sentiment/internal/types"

// DefaultUniverse is the Nifty 50 constituent list with index weightage in percent.
func DefaultUniverse() []types.Stock {
	return []types.Stock{
		{Symbol: "HDFCBANK", Name: "HDFC Bank Ltd", Sector: "Banking", Weightage: 11.23},
		{Symbol: "ICICIBANK", Name: "ICICI Bank Ltd", Sector: "Banking", Weightage: 7.89},
		{Symbol: "SBIN", Name: "State Bank of India", Sector: "Banking", Weightage: 2.89},
		{Symbol: "KOTAKBANK", Name: "Kotak Mahindra Bank Ltd", Sector: "Banking", Weightage: 3.45},
		{Symbol: "AXISBANK", Name: "Axis Bank Ltd", Sector: "Banking", Weightage: 2.12},
		{Symbol: "INDUSINDBK", Name: "IndusInd Bank Ltd", Sector: "Banking", Weightage: 0.89},
		{Symbol: "BAJFINANCE", Name: "Bajaj Finance Ltd", Sector: "Financial Services", Weightage: 2.34},
		{Symbol: "BAJAJFINSV", Name: "Bajaj Finserv Ltd", Sector: "Financial Services", Weightage: 1.67},
		{Symbol: "SBILIFE", Name: "SBI Life Insurance Co Ltd", Sector: "Insurance", Weightage: 1.23},
		{Symbol: "HDFCLIFE", Name: "HDFC Life Insurance Co Ltd", Sector: "Insurance", Weightage: 1.12},
		{Symbol: "ICICIPRULI", Name: "ICICI Prudential Life Insurance Co Ltd", Sector: "Insurance", Weightage: 0.89},
		{Symbol: "POWERGRID", Name: "Power Grid Corporation of India Ltd", Sector: "Power", Weightage: 1.45},
		{Symbol: "TCS", Name: "Tata Consultancy Services Ltd", Sector: "IT", Weightage: 4.56},
		{Symbol: "INFY", Name: "Infosys Ltd", Sector: "IT", Weightage: 3.23},
		{Symbol: "WIPRO", Name: "Wipro Ltd", Sector: "IT", Weightage: 1.34},
		{Symbol: "HCLTECH", Name: "HCL Technologies Ltd", Sector: "IT", Weightage: 1.78},
		{Symbol: "TECHM", Name: "Tech Mahindra Ltd", Sector: "IT", Weightage: 0.89},
		{Symbol: "LTIM", Name: "L&T Technology Services Ltd", Sector: "IT", Weightage: 0.67},
		{Symbol: "PERSISTENT", Name: "Persistent Systems Ltd", Sector: "IT", Weightage: 0.45},
		{Symbol: "RELIANCE", Name: "Reliance Industries Ltd", Sector: "Oil & Gas", Weightage: 10.23},
		{Symbol: "ONGC", Name: "Oil & Natural Gas Corporation Ltd", Sector: "Oil & Gas", Weightage: 1.89},
		{Symbol: "IOC", Name: "Indian Oil Corporation Ltd", Sector: "Oil & Gas", Weightage: 1.23},
		{Symbol: "BPCL", Name: "Bharat Petroleum Corporation Ltd", Sector: "Oil & Gas", Weightage: 0.89},
		{Symbol: "MARUTI", Name: "Maruti Suzuki India Ltd", Sector: "Automotive", Weightage: 1.67},
		{Symbol: "TATAMOTORS", Name: "Tata Motors Ltd", Sector: "Automotive", Weightage: 1.45},
		{Symbol: "M&M", Name: "Mahindra & Mahindra Ltd", Sector: "Automotive", Weightage: 1.23},
		{Symbol: "EICHERMOT", Name: "Eicher Motors Ltd", Sector: "Automotive", Weightage: 0.78},
		{Symbol: "HINDUNILVR", Name: "Hindustan Unilever Ltd", Sector: "FMCG", Weightage: 2.34},
		{Symbol: "ITC", Name: "ITC Ltd", Sector: "FMCG", Weightage: 3.45},
		{Symbol: "NESTLEIND", Name: "Nestle India Ltd", Sector: "FMCG", Weightage: 1.23},
		{Symbol: "BRITANNIA", Name: "Britannia Industries Ltd", Sector: "FMCG", Weightage: 0.89},
		{Symbol: "TATASTEEL", Name: "Tata Steel Ltd", Sector: "Metals", Weightage: 1.45},
		{Symbol: "JSWSTEEL", Name: "JSW Steel Ltd", Sector: "Metals", Weightage: 1.23},
		{Symbol: "HINDALCO", Name: "Hindalco Industries Ltd", Sector: "Metals", Weightage: 1.12},
		{Symbol: "COALINDIA", Name: "Coal India Ltd", Sector: "Mining", Weightage: 1.34},
		{Symbol: "BHARTIARTL", Name: "Bharti Airtel Ltd", Sector: "Telecom", Weightage: 2.89},
		{Symbol: "IDEA", Name: "Vodafone Idea Ltd", Sector: "Telecom", Weightage: 0.45},
		{Symbol: "LT", Name: "Larsen & Toubro Ltd", Sector: "Infrastructure", Weightage: 2.12},
		{Symbol: "NTPC", Name: "NTPC Ltd", Sector: "Power", Weightage: 1.67},
		{Symbol: "TITAN", Name: "Titan Company Ltd", Sector: "Consumer Goods", Weightage: 1.45},
		{Symbol: "ASIANPAINT", Name: "Asian Paints Ltd", Sector: "Consumer Goods", Weightage: 1.23},
		{Symbol: "SUNPHARMA", Name: "Sun Pharmaceutical Industries Ltd", Sector: "Pharma", Weightage: 1.34},
		{Symbol: "DRREDDY", Name: "Dr Reddy's Laboratories Ltd", Sector: "Pharma", Weightage: 1.12},
		{Symbol: "ULTRACEMCO", Name: "UltraTech Cement Ltd", Sector: "Cement", Weightage: 1.45},
		{Symbol: "SHREECEM", Name: "Shree Cement Ltd", Sector: "Cement", Weightage: 0.89},
		{Symbol: "ADANIENT", Name: "Adani Enterprises Ltd", Sector: "Diversified", Weightage: 1.23},
		{Symbol: "ADANIPORTS", Name: "Adani Ports & Special Economic Zone Ltd", Sector: "Infrastructure", Weightage: 1.12},
		{Symbol: "HEROMOTOCO", Name: "Hero MotoCorp Ltd", Sector: "Automotive", Weightage: 0.78},
	}
}
